package transport

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TaskCreateRequest is the body of POST /api/tasks.
type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Priority    string `json:"priority"`
}

// TaskUpdateRequest is the body of PUT /api/tasks/{id}. All fields are sent
// as a full replacement; the server does not merge partial updates.
type TaskUpdateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}
