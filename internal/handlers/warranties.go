package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/fonelab/repairshopgo/internal/listquery"
	"github.com/fonelab/repairshopgo/internal/models"
	"github.com/fonelab/repairshopgo/internal/viewcache"
)

// listWarranties returns one page of warranties with their repairs
func (r *Router) listWarranties(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	params := listquery.ParseParams(q)

	tx := r.db.Model(&models.Warranty{}).Preload("Repair").Preload("Repair.Customer")
	if q.Get("rework") == "true" {
		tx = tx.Where("is_rework = ?", true)
	}

	page, err := listquery.Find[models.Warranty](tx, params, "id DESC")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "保修列表获取失败")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"warranties": page.Rows,
		"pageCount":  page.PageCount,
	})
}

// reworkWarranty flips a warranty and its repair into rework state. The two
// rows change in one transaction: a failure on either side leaves both
// untouched.
func (r *Router) reworkWarranty(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var warranty models.Warranty
		if err := tx.First(&warranty, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Model(&warranty).Update("is_rework", true).Error; err != nil {
			return err
		}

		return tx.Model(&models.Repair{}).Where("id = ?", warranty.RepairID).Updates(map[string]interface{}{
			"is_rework": true,
			"status":    models.RepairStatusRework,
		}).Error
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "返修登记失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationWarranty)
	respondSuccess(w, "返修登记成功")
}

// deleteWarranty removes a warranty record
func (r *Router) deleteWarranty(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	res := r.db.Where("id = ?", id).Delete(&models.Warranty{})
	if res.Error != nil || res.RowsAffected == 0 {
		respondError(w, http.StatusInternalServerError, "保修删除失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationWarranty)
	respondSuccess(w, "保修删除成功")
}
