package dto

// CreateUserRequest is the JSON body for POST /users.
type CreateUserRequest struct {
	Name string `json:"name" binding:"required,min=1,max=120"`
}

type UserResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateUserResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

type GetUserResponse struct {
	User UserResponse `json:"user"`
}
