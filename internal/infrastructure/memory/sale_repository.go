package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/colibri-pos/internal/domain"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación en memoria de repository.SaleRepository.
type SaleRepo struct {
	conn
}

func (r *SaleRepo) MaxReceiptNumber(_ context.Context) (int64, error) {
	var last int64
	r.read(func(st *state) {
		for _, s := range st.sales {
			if s.ReceiptNumber > last {
				last = s.ReceiptNumber
			}
		}
	})
	return last, nil
}

func (r *SaleRepo) ReceiptExists(_ context.Context, number int64) (bool, error) {
	var exists bool
	r.read(func(st *state) {
		exists = receiptTaken(st, number)
	})
	return exists, nil
}

// Create persiste la cabecera. Respeta la unicidad de numero_boleta y la FK al usuario creador.
func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.write(func(st *state) error {
		if receiptTaken(st, sale.ReceiptNumber) {
			return fmt.Errorf("%w: %d", domain.ErrDuplicateReceipt, sale.ReceiptNumber)
		}
		if _, ok := st.users[sale.CreatedBy]; !ok {
			return fmt.Errorf("insert sale: usuario %q no existe", sale.CreatedBy)
		}
		st.nextSaleID++
		sale.ID = st.nextSaleID
		row := *sale
		row.Items = nil
		st.sales[sale.ID] = row
		return nil
	})
}

func (r *SaleRepo) CreateItem(_ context.Context, item *entity.SaleItem) error {
	return r.write(func(st *state) error {
		if _, ok := st.sales[item.SaleID]; !ok {
			return fmt.Errorf("insert sale item: venta %d no existe", item.SaleID)
		}
		if _, ok := st.products[item.ProductID]; !ok {
			return fmt.Errorf("insert sale item: producto %d no existe", item.ProductID)
		}
		st.nextItemID++
		item.ID = st.nextItemID
		st.saleItems = append(st.saleItems, *item)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	var out *entity.Sale
	r.read(func(st *state) {
		s, ok := st.sales[id]
		if !ok {
			return
		}
		for _, it := range st.saleItems {
			if it.SaleID != id {
				continue
			}
			it := it
			if p, ok := st.products[it.ProductID]; ok {
				it.ProductName = p.Name
				it.ProductSKU = p.SKU
			}
			s.Items = append(s.Items, &it)
		}
		out = &s
	})
	return out, nil
}

func receiptTaken(st *state, number int64) bool {
	for _, s := range st.sales {
		if s.ReceiptNumber == number {
			return true
		}
	}
	return false
}
