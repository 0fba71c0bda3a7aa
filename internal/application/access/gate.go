// Package access concentra las reglas de autorización por rol (Access Gate).
// Cada caso de uso que muta o lee datos de negocio llama a Gate.Authorize antes de ejecutar.
package access

import (
	"fmt"

	"github.com/jhoicas/colibri-pos/internal/domain"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
)

// Capability operación protegida.
type Capability string

const (
	CapSaleCommit     Capability = "sale:commit"
	CapSaleRead       Capability = "sale:read"
	CapOrderCreate    Capability = "order:create"
	CapOrderList      Capability = "order:list"
	CapOrderSetStatus Capability = "order:set_status"
	CapReportRead     Capability = "report:read"
	CapDashboardRead  Capability = "dashboard:read"
	CapProductList    Capability = "product:list"
	CapProductUpdate  Capability = "product:update"
)

// defaultPolicy rol -> capacidades. El admin tiene todas.
var defaultPolicy = map[string][]Capability{
	entity.RoleAdmin: {
		CapSaleCommit, CapSaleRead,
		CapOrderCreate, CapOrderList, CapOrderSetStatus,
		CapReportRead, CapDashboardRead,
		CapProductList, CapProductUpdate,
	},
	entity.RoleCajero: {
		CapSaleCommit, CapSaleRead,
		CapOrderCreate, CapOrderList, CapOrderSetStatus,
		CapReportRead,
		CapProductList,
	},
}

// Gate decide si un actor puede ejecutar una capacidad.
type Gate struct {
	policy map[string]map[Capability]struct{}
}

// NewGate construye el gate con la política por defecto.
func NewGate() *Gate {
	return NewGateWithPolicy(defaultPolicy)
}

// NewGateWithPolicy construye el gate con una política explícita (rol -> capacidades).
func NewGateWithPolicy(policy map[string][]Capability) *Gate {
	g := &Gate{policy: make(map[string]map[Capability]struct{}, len(policy))}
	for role, caps := range policy {
		set := make(map[Capability]struct{}, len(caps))
		for _, c := range caps {
			set[c] = struct{}{}
		}
		g.policy[role] = set
	}
	return g
}

// Authorize devuelve nil si el actor puede ejecutar cap.
//   - domain.ErrUnauthorized si el actor no tiene usuario o su rol es desconocido.
//   - domain.ErrForbidden si el rol existe pero no incluye la capacidad.
func (g *Gate) Authorize(actor entity.Actor, cap Capability) error {
	if actor.UserID == "" {
		return domain.ErrUnauthorized
	}
	caps, ok := g.policy[actor.Role]
	if !ok {
		return fmt.Errorf("%w: rol %q desconocido", domain.ErrUnauthorized, actor.Role)
	}
	if _, ok := caps[cap]; !ok {
		return fmt.Errorf("%w: el rol %q no permite %s", domain.ErrForbidden, actor.Role, cap)
	}
	return nil
}
