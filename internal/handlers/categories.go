package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/fonelab/repairshopgo/internal/listquery"
	"github.com/fonelab/repairshopgo/internal/models"
	"github.com/fonelab/repairshopgo/internal/viewcache"
)

// CategoryPayload is the create/update body for a taxonomy root
type CategoryPayload struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required,oneof=repair component"`
}

// CategoryItemPayload is the create/update body for a leaf entry
type CategoryItemPayload struct {
	CategoryID uint   `json:"categoryId" validate:"required"`
	Name       string `json:"name" validate:"required"`
}

// listCategories returns one page of categories with their items, optionally
// narrowed to one taxonomy type
func (r *Router) listCategories(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	params := listquery.ParseParams(q)

	tx := r.db.Model(&models.Category{}).Preload("Items")
	if t := q.Get("type"); t != "" {
		tx = tx.Where("type = ?", t)
	}
	tx = listquery.ILike(tx, "name", q.Get("name"))

	page, err := listquery.Find[models.Category](tx, params, "id ASC")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "分类列表获取失败")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": page.Rows,
		"pageCount":  page.PageCount,
	})
}

// createCategory creates a taxonomy root
func (r *Router) createCategory(w http.ResponseWriter, req *http.Request) {
	var payload CategoryPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "分类信息不完整")
		return
	}

	if err := r.db.Create(&models.Category{Name: payload.Name, Type: payload.Type}).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "分类创建失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationCategory)
	respondSuccess(w, "分类创建成功")
}

// updateCategory renames a taxonomy root
func (r *Router) updateCategory(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var payload CategoryPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "分类信息不完整")
		return
	}

	res := r.db.Model(&models.Category{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name": payload.Name,
		"type": payload.Type,
	})
	if res.Error != nil || res.RowsAffected == 0 {
		respondError(w, http.StatusInternalServerError, "分类更新失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationCategory, "/dashboard/categories/"+id)
	respondSuccess(w, "分类更新成功")
}

// deleteCategory removes a taxonomy root and its items in one transaction,
// so a failed cascade cannot leave live items under a deleted category
func (r *Router) deleteCategory(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("category_id = ?", id).Delete(&models.CategoryItem{}).Error
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "分类删除失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationCategory, "/dashboard/categories/"+id)
	respondSuccess(w, "分类删除成功")
}

// createCategoryItem adds a leaf entry; only the parent category's view is
// invalidated, not unrelated categories
func (r *Router) createCategoryItem(w http.ResponseWriter, req *http.Request) {
	var payload CategoryItemPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "分类项信息不完整")
		return
	}

	item := models.CategoryItem{CategoryID: payload.CategoryID, Name: payload.Name}
	if err := r.db.Create(&item).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "分类项创建失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationCategoryItem, categoryViewPath(payload.CategoryID))
	respondSuccess(w, "分类项创建成功")
}

// updateCategoryItem renames a leaf entry
func (r *Router) updateCategoryItem(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var payload CategoryItemPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "分类项信息不完整")
		return
	}

	res := r.db.Model(&models.CategoryItem{}).Where("id = ?", id).Updates(map[string]interface{}{
		"category_id": payload.CategoryID,
		"name":        payload.Name,
	})
	if res.Error != nil || res.RowsAffected == 0 {
		respondError(w, http.StatusInternalServerError, "分类项更新失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationCategoryItem, categoryViewPath(payload.CategoryID))
	respondSuccess(w, "分类项更新成功")
}

// deleteCategoryItem removes a leaf entry
func (r *Router) deleteCategoryItem(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var item models.CategoryItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "分类项删除失败")
		return
	}

	if err := r.db.Delete(&item).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "分类项删除失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationCategoryItem, categoryViewPath(item.CategoryID))
	respondSuccess(w, "分类项删除成功")
}

// categoryViewPath is the dashboard view listing one category's items
func categoryViewPath(categoryID uint) string {
	return fmt.Sprintf("/dashboard/categories/%d", categoryID)
}
