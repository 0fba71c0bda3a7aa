package dto

import "github.com/jhoicas/colibri-pos/internal/domain/entity"

// MeResponse salida de GET /api/me/ (el cliente decide qué menú mostrar según is_staff/rol).
type MeResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	IsStaff  bool   `json:"is_staff"`
	Role     string `json:"rol"`
}

// MeFromUser construye la respuesta a partir del usuario persistido.
func MeFromUser(u *entity.User) MeResponse {
	return MeResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsStaff:  u.IsStaff || u.Role == entity.RoleAdmin,
		Role:     u.Role,
	}
}
