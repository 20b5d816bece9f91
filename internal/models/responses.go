package models

// Ответы API. Вместо наследуемых hypermedia-оберток - плоские структуры,
// список ссылок собирает отдельная функция на стороне server.

type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type TaskResponse struct {
	Task
	Links []Link `json:"links,omitempty"`
}

type SubtaskResponse struct {
	Subtask
	Links []Link `json:"links,omitempty"`
}

type TagResponse struct {
	Tag
	Links []Link `json:"links,omitempty"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Links    []Link `json:"links,omitempty"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Role: u.Role}
}

type PageMetadata struct {
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
}

func NewPageMetadata(page, size int, total int64) PageMetadata {
	totalPages := int(total) / size
	if int(total)%size != 0 {
		totalPages++
	}
	return PageMetadata{Size: size, TotalElements: total, TotalPages: totalPages, Number: page}
}

type PagedResponse[T any] struct {
	Content []T          `json:"content"`
	Page    PageMetadata `json:"page"`
}
