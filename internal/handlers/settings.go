package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm/clause"

	"github.com/fonelab/repairshopgo/internal/models"
	"github.com/fonelab/repairshopgo/internal/viewcache"
)

// SettingPayload upserts one key-value pair
type SettingPayload struct {
	SettingName  string `json:"settingName" validate:"required"`
	SettingValue string `json:"settingValue"`
}

// listSettings returns all settings as a flat list
func (r *Router) listSettings(w http.ResponseWriter, req *http.Request) {
	var settings []models.Setting
	if err := r.db.Order("setting_name ASC").Find(&settings).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "设置获取失败")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"settings": settings})
}

// upsertSetting creates or overwrites a setting by its unique name;
// settings are never deleted
func (r *Router) upsertSetting(w http.ResponseWriter, req *http.Request) {
	var payload SettingPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "设置信息不完整")
		return
	}

	setting := models.Setting{
		SettingName:  payload.SettingName,
		SettingValue: payload.SettingValue,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "设置保存失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationSetting)
	respondSuccess(w, "设置保存成功")
}
