package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fonelab/repairshopgo/internal/listquery"
	"github.com/fonelab/repairshopgo/internal/models"
	"github.com/fonelab/repairshopgo/internal/viewcache"
)

// BrandPayload is the create/update body for a brand
type BrandPayload struct {
	Name string `json:"name" validate:"required"`
}

// PhonePayload is the create/update body for a phone model
type PhonePayload struct {
	BrandID  uint   `json:"brandId" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code"`
	IsTablet bool   `json:"isTablet"`
}

// listBrands returns one page of brands filtered by name
func (r *Router) listBrands(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	params := listquery.ParseParams(q)

	tx := r.db.Model(&models.Brand{})
	tx = listquery.ILike(tx, "name", q.Get("name"))

	page, err := listquery.Find[models.Brand](tx, params, "id ASC")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "品牌列表获取失败")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"brands":    page.Rows,
		"pageCount": page.PageCount,
	})
}

// listBrandPhones returns one page of a brand's phone models
func (r *Router) listBrandPhones(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	q := req.URL.Query()
	params := listquery.ParseParams(q)

	tx := r.db.Model(&models.Phone{}).Where("brand_id = ?", id)
	tx = listquery.ILike(tx, "name", q.Get("name"))

	page, err := listquery.Find[models.Phone](tx, params, "id ASC")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "型号列表获取失败")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"phones":    page.Rows,
		"pageCount": page.PageCount,
	})
}

// createBrand creates a brand
func (r *Router) createBrand(w http.ResponseWriter, req *http.Request) {
	var payload BrandPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "品牌信息不完整")
		return
	}

	if err := r.db.Create(&models.Brand{Name: payload.Name}).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "品牌创建失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationBrand)
	respondSuccess(w, "品牌创建成功")
}

// updateBrand renames a brand
func (r *Router) updateBrand(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var payload BrandPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "品牌信息不完整")
		return
	}

	res := r.db.Model(&models.Brand{}).Where("id = ?", id).Update("name", payload.Name)
	if res.Error != nil || res.RowsAffected == 0 {
		respondError(w, http.StatusInternalServerError, "品牌更新失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationBrand, "/dashboard/brands/"+id)
	respondSuccess(w, "品牌更新成功")
}

// deleteBrand removes a brand
func (r *Router) deleteBrand(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	res := r.db.Where("id = ?", id).Delete(&models.Brand{})
	if res.Error != nil || res.RowsAffected == 0 {
		respondError(w, http.StatusInternalServerError, "品牌删除失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationBrand, "/dashboard/brands/"+id)
	respondSuccess(w, "品牌删除成功")
}

// createPhone adds a phone model under a brand
func (r *Router) createPhone(w http.ResponseWriter, req *http.Request) {
	var payload PhonePayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "型号信息不完整")
		return
	}

	phone := models.Phone{
		BrandID:  payload.BrandID,
		Name:     payload.Name,
		Code:     payload.Code,
		IsTablet: payload.IsTablet,
	}
	if err := r.db.Create(&phone).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "型号创建失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationPhone, brandViewPath(payload.BrandID))
	respondSuccess(w, "型号创建成功")
}

// updatePhone updates a phone model
func (r *Router) updatePhone(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var payload PhonePayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "型号信息不完整")
		return
	}

	res := r.db.Model(&models.Phone{}).Where("id = ?", id).Updates(map[string]interface{}{
		"brand_id":  payload.BrandID,
		"name":      payload.Name,
		"code":      payload.Code,
		"is_tablet": payload.IsTablet,
	})
	if res.Error != nil || res.RowsAffected == 0 {
		respondError(w, http.StatusInternalServerError, "型号更新失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationPhone, brandViewPath(payload.BrandID))
	respondSuccess(w, "型号更新成功")
}

// deletePhone removes a phone model
func (r *Router) deletePhone(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var phone models.Phone
	if err := r.db.First(&phone, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "型号删除失败")
		return
	}

	if err := r.db.Delete(&phone).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "型号删除失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationPhone, brandViewPath(phone.BrandID))
	respondSuccess(w, "型号删除成功")
}

// brandViewPath is the dashboard view listing a brand's phones
func brandViewPath(brandID uint) string {
	return fmt.Sprintf("/dashboard/brands/%d", brandID)
}
