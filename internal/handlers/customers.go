package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fonelab/repairshopgo/internal/listquery"
	"github.com/fonelab/repairshopgo/internal/models"
	"github.com/fonelab/repairshopgo/internal/viewcache"
)

// CustomerPayload is the create/update body for a customer
type CustomerPayload struct {
	Name  string `json:"name" validate:"required"`
	Tel   string `json:"tel" validate:"required,min=5"`
	Email string `json:"email" validate:"omitempty,email"`
}

// listCustomers returns one page of customers filtered by name/tel
func (r *Router) listCustomers(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	params := listquery.ParseParams(q)

	tx := r.db.Model(&models.Customer{})
	tx = listquery.ILike(tx, "name", q.Get("name"))
	tx = listquery.ILike(tx, "tel", q.Get("tel"))

	page, err := listquery.Find[models.Customer](tx, params, "id ASC")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "客户列表获取失败")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"customers": page.Rows,
		"pageCount": page.PageCount,
	})
}

// getCustomer returns a customer with their repair history
func (r *Router) getCustomer(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var customer models.Customer
	if err := r.db.Preload("Repairs").First(&customer, "id = ?", id).Error; err != nil {
		respondJSON(w, http.StatusOK, nil)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// createCustomer creates a customer explicitly (outside repair intake)
func (r *Router) createCustomer(w http.ResponseWriter, req *http.Request) {
	var payload CustomerPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "客户信息不完整")
		return
	}

	customer := models.Customer{
		Name:  payload.Name,
		Tel:   payload.Tel,
		Email: payload.Email,
	}
	if err := r.db.Create(&customer).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "客户创建失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationCustomer)
	respondSuccess(w, "客户创建成功")
}

// updateCustomer updates a customer's identity fields
func (r *Router) updateCustomer(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var payload CustomerPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "客户信息不完整")
		return
	}

	res := r.db.Model(&models.Customer{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":  payload.Name,
		"tel":   payload.Tel,
		"email": payload.Email,
	})
	if res.Error != nil || res.RowsAffected == 0 {
		respondError(w, http.StatusInternalServerError, "客户更新失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationCustomer)
	respondSuccess(w, "客户更新成功")
}

// deleteCustomer removes a customer
func (r *Router) deleteCustomer(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	res := r.db.Where("id = ?", id).Delete(&models.Customer{})
	if res.Error != nil || res.RowsAffected == 0 {
		respondError(w, http.StatusInternalServerError, "客户删除失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationCustomer)
	respondSuccess(w, "客户删除成功")
}
