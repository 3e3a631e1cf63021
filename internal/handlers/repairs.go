package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/fonelab/repairshopgo/internal/listquery"
	"github.com/fonelab/repairshopgo/internal/models"
	"github.com/fonelab/repairshopgo/internal/printer"
	"github.com/fonelab/repairshopgo/internal/viewcache"
)

// RepairIntakePayload is the intake form: the repair plus the identity of
// the customer it belongs to (matched or created by phone number)
type RepairIntakePayload struct {
	PhoneModel string   `json:"phoneModel" validate:"required"`
	Problems   []string `json:"problems" validate:"required,min=1,dive,required"`
	Tel        string   `json:"tel" validate:"required,min=5"`
	Name       string   `json:"name" validate:"required"`
	Deposit    float64  `json:"deposit" validate:"gte=0"`
	Price      float64  `json:"price" validate:"gte=0"`
}

// RepairUpdatePayload updates an existing ticket
type RepairUpdatePayload struct {
	PhoneModel string   `json:"phoneModel" validate:"required"`
	Problems   []string `json:"problems" validate:"required,min=1,dive,required"`
	Status     string   `json:"status" validate:"required"`
	Deposit    float64  `json:"deposit" validate:"gte=0"`
	Price      float64  `json:"price" validate:"gte=0"`
}

// newTicketNo generates a short uppercase ticket number
func newTicketNo() string {
	return "R-" + strings.ToUpper(uuid.NewString()[:8])
}

// listRepairs returns one page of repairs, newest first, filterable by
// customer tel, phone model and status
func (r *Router) listRepairs(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	params := listquery.ParseParams(q)

	tx := r.db.Model(&models.Repair{}).
		Joins("JOIN customers ON customers.id = repairs.customer_id AND customers.deleted_at IS NULL").
		Preload("Customer").
		Preload("Warranty")
	tx = listquery.ILike(tx, "customers.tel", q.Get("tel"))
	tx = listquery.ILike(tx, "repairs.phone_model", q.Get("model"))
	if status := q.Get("status"); status != "" {
		tx = tx.Where("repairs.status = ?", status)
	}

	page, err := listquery.Find[models.Repair](tx, params, "repairs.id DESC")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "维修单列表获取失败")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"repairs":   page.Rows,
		"pageCount": page.PageCount,
	})
}

// getRepair returns one ticket with its customer and warranty
func (r *Router) getRepair(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var repair models.Repair
	if err := r.db.Preload("Customer").Preload("Warranty").First(&repair, "id = ?", id).Error; err != nil {
		respondJSON(w, http.StatusOK, nil)
		return
	}
	respondJSON(w, http.StatusOK, repair)
}

// createRepair performs repair intake. The owning customer is upserted by
// phone number inside the same transaction: attach when the number exists,
// create customer and repair together when it does not.
func (r *Router) createRepair(w http.ResponseWriter, req *http.Request) {
	var payload RepairIntakePayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "维修单信息不完整")
		return
	}

	problems, err := json.Marshal(payload.Problems)
	if err != nil {
		respondError(w, http.StatusBadRequest, "维修单信息不完整")
		return
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		err := tx.Where("tel = ?", payload.Tel).First(&customer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			customer = models.Customer{Name: payload.Name, Tel: payload.Tel}
			if err := tx.Create(&customer).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		repair := models.Repair{
			TicketNo:   newTicketNo(),
			CustomerID: customer.ID,
			PhoneModel: payload.PhoneModel,
			Problems:   problems,
			Status:     models.RepairStatusInProgress,
			Deposit:    payload.Deposit,
			Price:      payload.Price,
		}
		return tx.Create(&repair).Error
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "维修单创建失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationRepair)
	respondSuccess(w, "维修单创建成功")
}

// updateRepair updates a ticket; the transition to picked-up opens the
// warranty window for later rework
func (r *Router) updateRepair(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var payload RepairUpdatePayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "维修单信息不完整")
		return
	}

	problems, err := json.Marshal(payload.Problems)
	if err != nil {
		respondError(w, http.StatusBadRequest, "维修单信息不完整")
		return
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		var repair models.Repair
		if err := tx.First(&repair, "id = ?", id).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"phone_model": payload.PhoneModel,
			"problems":    problems,
			"status":      payload.Status,
			"deposit":     payload.Deposit,
			"price":       payload.Price,
		}
		if err := tx.Model(&repair).Updates(updates).Error; err != nil {
			return err
		}

		if payload.Status == models.RepairStatusPickedUp {
			warranty := models.Warranty{RepairID: repair.ID}
			if err := tx.Where("repair_id = ?", repair.ID).FirstOrCreate(&warranty).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "维修单更新失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationRepair)
	respondSuccess(w, "维修单更新成功")
}

// deleteRepair removes a ticket unless it is under warranty rework
func (r *Router) deleteRepair(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var repair models.Repair
	if err := r.db.First(&repair, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "维修单删除失败")
		return
	}
	if repair.IsRework {
		respondError(w, http.StatusBadRequest, "返修中的维修单不能删除")
		return
	}

	if err := r.db.Delete(&repair).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "维修单删除失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationRepair)
	respondSuccess(w, "维修单删除成功")
}

// repairReceipt streams the printable pickup receipt for a ticket
func (r *Router) repairReceipt(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var repair models.Repair
	if err := r.db.First(&repair, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "维修单不存在")
		return
	}

	shopName := "repairshopgo"
	var setting models.Setting
	if err := r.db.Where("setting_name = ?", "shop_name").First(&setting).Error; err == nil && setting.SettingValue != "" {
		shopName = setting.SettingValue
	}

	pdf, err := printer.GenerateRepairReceipt(&repair, shopName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "小票生成失败")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", repair.TicketNo))
	w.Write(pdf)
}
