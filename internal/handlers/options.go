package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fonelab/repairshopgo/internal/models"
)

// Option is one entry of a form picker
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// formOptions serves the dropdown contents for dashboard forms. Kinds:
// brands, phones (optionally ?brand_id=), repair-problems,
// component-categories, suppliers, qualities, repair-statuses.
func (r *Router) formOptions(w http.ResponseWriter, req *http.Request) {
	kind := mux.Vars(req)["kind"]

	var options []Option
	var err error

	switch kind {
	case "brands":
		var brands []models.Brand
		if err = r.db.Order("name ASC").Find(&brands).Error; err == nil {
			for _, b := range brands {
				options = append(options, Option{Value: b.Name, Label: b.Name})
			}
		}
	case "phones":
		tx := r.db.Order("name ASC")
		if brandID := req.URL.Query().Get("brand_id"); brandID != "" {
			tx = tx.Where("brand_id = ?", brandID)
		}
		var phones []models.Phone
		if err = tx.Find(&phones).Error; err == nil {
			for _, p := range phones {
				options = append(options, Option{Value: p.Name, Label: p.Name})
			}
		}
	case "repair-problems", "component-categories":
		catType := models.CategoryTypeRepair
		if kind == "component-categories" {
			catType = models.CategoryTypeComponent
		}
		var items []models.CategoryItem
		err = r.db.
			Joins("JOIN categories ON categories.id = category_items.category_id AND categories.deleted_at IS NULL").
			Where("categories.type = ?", catType).
			Order("category_items.name ASC").
			Find(&items).Error
		if err == nil {
			for _, item := range items {
				options = append(options, Option{Value: item.Name, Label: item.Name})
			}
		}
	case "suppliers":
		var suppliers []models.Supplier
		if err = r.db.Order("name ASC").Find(&suppliers).Error; err == nil {
			for _, s := range suppliers {
				options = append(options, Option{Value: s.Name, Label: s.Name})
			}
		}
	case "qualities":
		for _, q := range []string{"原装", "国产", "拆机"} {
			options = append(options, Option{Value: q, Label: q})
		}
	case "repair-statuses":
		statuses := []string{
			models.RepairStatusInProgress,
			models.RepairStatusDone,
			models.RepairStatusPickedUp,
			models.RepairStatusRework,
			models.RepairStatusUnfixable,
		}
		for _, s := range statuses {
			options = append(options, Option{Value: s, Label: s})
		}
	default:
		respondError(w, http.StatusBadRequest, "未知的选项类型")
		return
	}

	if err != nil {
		respondError(w, http.StatusInternalServerError, "选项获取失败")
		return
	}
	if options == nil {
		options = []Option{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"options": options})
}
