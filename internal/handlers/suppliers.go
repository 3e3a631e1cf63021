package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fonelab/repairshopgo/internal/listquery"
	"github.com/fonelab/repairshopgo/internal/models"
	"github.com/fonelab/repairshopgo/internal/utils"
	"github.com/fonelab/repairshopgo/internal/viewcache"
)

// SupplierPayload is the create/update body for a supplier
type SupplierPayload struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Site        string `json:"site" validate:"omitempty,url"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

// listSuppliers returns one page of suppliers filtered by name
func (r *Router) listSuppliers(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	params := listquery.ParseParams(q)

	tx := r.db.Model(&models.Supplier{})
	tx = listquery.ILike(tx, "name", q.Get("name"))

	page, err := listquery.Find[models.Supplier](tx, params, "id ASC")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "供应商列表获取失败")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"suppliers": page.Rows,
		"pageCount": page.PageCount,
	})
}

// getSupplier returns one supplier with its portal password decrypted for
// the dashboard's credential reveal
func (r *Router) getSupplier(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var supplier models.Supplier
	if err := r.db.First(&supplier, "id = ?", id).Error; err != nil {
		respondJSON(w, http.StatusOK, nil)
		return
	}

	password := ""
	if supplier.Password != "" {
		if plain, err := utils.DecryptSecret(supplier.Password, r.cfg.EncKey); err == nil {
			password = plain
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"supplier": supplier,
		"password": password,
	})
}

// createSupplier creates a supplier; portal credentials are encrypted at rest
func (r *Router) createSupplier(w http.ResponseWriter, req *http.Request) {
	var payload SupplierPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "供应商信息不完整")
		return
	}

	supplier, err := r.supplierFromPayload(&payload)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "供应商创建失败")
		return
	}
	if err := r.db.Create(supplier).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "供应商创建失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationSupplier)
	respondSuccess(w, "供应商创建成功")
}

// updateSupplier updates a supplier. Renaming does not rewrite the
// supplier-name snapshots on components; they keep working as fallback
// labels (known denormalization, surfaced on the dashboard instead).
func (r *Router) updateSupplier(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var payload SupplierPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "供应商信息不完整")
		return
	}

	supplier, err := r.supplierFromPayload(&payload)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "供应商更新失败")
		return
	}

	updates := map[string]interface{}{
		"name":        supplier.Name,
		"description": supplier.Description,
		"site":        supplier.Site,
		"username":    supplier.Username,
	}
	if supplier.Password != "" {
		updates["password"] = supplier.Password
	}

	res := r.db.Model(&models.Supplier{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil || res.RowsAffected == 0 {
		respondError(w, http.StatusInternalServerError, "供应商更新失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationSupplier)
	respondSuccess(w, "供应商更新成功")
}

// deleteSupplier removes a supplier; components referencing it fall back to
// their stored supplier-name label
func (r *Router) deleteSupplier(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	res := r.db.Where("id = ?", id).Delete(&models.Supplier{})
	if res.Error != nil || res.RowsAffected == 0 {
		respondError(w, http.StatusInternalServerError, "供应商删除失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationSupplier)
	respondSuccess(w, "供应商删除成功")
}

// supplierFromPayload builds the model, encrypting the portal password when
// an encryption key is configured
func (r *Router) supplierFromPayload(p *SupplierPayload) (*models.Supplier, error) {
	supplier := &models.Supplier{
		Name:        p.Name,
		Description: p.Description,
		Site:        p.Site,
		Username:    p.Username,
	}
	if p.Password != "" && r.cfg.EncKey != "" {
		sealed, err := utils.EncryptSecret(p.Password, r.cfg.EncKey)
		if err != nil {
			return nil, err
		}
		supplier.Password = sealed
	}
	return supplier, nil
}
