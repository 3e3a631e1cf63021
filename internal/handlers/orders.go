package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/fonelab/repairshopgo/internal/listquery"
	"github.com/fonelab/repairshopgo/internal/models"
	"github.com/fonelab/repairshopgo/internal/viewcache"
)

// OrderItemPayload is one sold line of a sell-through order
type OrderItemPayload struct {
	ComponentID uint `json:"componentId" validate:"required"`
	Quantity    int  `json:"quantity" validate:"required,gte=1"`
}

// OrderPayload is the create body for a sell-through order
type OrderPayload struct {
	Items  []OrderItemPayload `json:"items" validate:"required,min=1,dive"`
	Remark string             `json:"remark"`
}

// errInsufficientStock aborts the order transaction when a line would drive
// a component's stock negative
var errInsufficientStock = errors.New("insufficient stock")

// newOrderNo generates a short uppercase order number
func newOrderNo() string {
	return "S-" + strings.ToUpper(uuid.NewString()[:8])
}

// listOrders returns one page of orders with their lines, newest first
func (r *Router) listOrders(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	params := listquery.ParseParams(q)

	tx := r.db.Model(&models.Order{}).Preload("Items")
	tx = listquery.ILike(tx, "order_no", q.Get("orderNo"))

	page, err := listquery.Find[models.Order](tx, params, "id DESC")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "销售单列表获取失败")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders":    page.Rows,
		"pageCount": page.PageCount,
	})
}

// getOrder returns one order with its lines
func (r *Router) getOrder(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		respondJSON(w, http.StatusOK, nil)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// createOrder records a sell-through. Component snapshots and the stock
// decrement happen in one transaction; any line with insufficient stock
// aborts the whole order.
func (r *Router) createOrder(w http.ResponseWriter, req *http.Request) {
	var payload OrderPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "销售单信息不完整")
		return
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		order := models.Order{OrderNo: newOrderNo(), Remark: payload.Remark}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		var total float64
		for _, line := range payload.Items {
			// Guarded decrement: refuses to go below zero without a
			// separate read-then-write race window
			res := tx.Model(&models.Component{}).
				Where("id = ? AND stock >= ?", line.ComponentID, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errInsufficientStock
			}

			var component models.Component
			if err := tx.First(&component, "id = ?", line.ComponentID).Error; err != nil {
				return err
			}

			componentID := line.ComponentID
			item := models.OrderItem{
				OrderID:     order.ID,
				ComponentID: &componentID,
				Name:        component.Name,
				Category:    component.Category,
				Price:       component.PublicPrice,
				Quantity:    line.Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			total += component.PublicPrice * float64(line.Quantity)
		}

		return tx.Model(&order).Update("total", total).Error
	})
	if errors.Is(err, errInsufficientStock) {
		respondError(w, http.StatusBadRequest, "库存不足，销售单未创建")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "销售单创建失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationOrder)
	respondSuccess(w, "销售单创建成功")
}
