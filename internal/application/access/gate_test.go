package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/colibri-pos/internal/application/access"
	"github.com/jhoicas/colibri-pos/internal/domain"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
)

func TestGate_AdminTieneTodasLasCapacidades(t *testing.T) {
	g := access.NewGate()
	admin := entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin}

	for _, c := range []access.Capability{
		access.CapSaleCommit, access.CapOrderSetStatus, access.CapReportRead,
		access.CapDashboardRead, access.CapProductUpdate,
	} {
		assert.NoError(t, g.Authorize(admin, c), "admin debe poder %s", c)
	}
}

func TestGate_CajeroNoEditaProductos(t *testing.T) {
	g := access.NewGate()
	cajero := entity.Actor{UserID: "u-caja", Role: entity.RoleCajero}

	require.NoError(t, g.Authorize(cajero, access.CapSaleCommit))
	require.NoError(t, g.Authorize(cajero, access.CapOrderCreate))

	err := g.Authorize(cajero, access.CapProductUpdate)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = g.Authorize(cajero, access.CapDashboardRead)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGate_ActorSinUsuarioORolDesconocido(t *testing.T) {
	g := access.NewGate()

	assert.ErrorIs(t, g.Authorize(entity.Actor{Role: entity.RoleAdmin}, access.CapSaleCommit), domain.ErrUnauthorized)
	assert.ErrorIs(t, g.Authorize(entity.Actor{UserID: "x", Role: "bodeguero"}, access.CapSaleCommit), domain.ErrUnauthorized)
}

func TestGate_PoliticaPersonalizada(t *testing.T) {
	g := access.NewGateWithPolicy(map[string][]access.Capability{
		"auditor": {access.CapReportRead},
	})
	auditor := entity.Actor{UserID: "a", Role: "auditor"}

	assert.NoError(t, g.Authorize(auditor, access.CapReportRead))
	assert.ErrorIs(t, g.Authorize(auditor, access.CapSaleCommit), domain.ErrForbidden)
}
