package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fonelab/repairshopgo/internal/listquery"
	"github.com/fonelab/repairshopgo/internal/models"
	"github.com/fonelab/repairshopgo/internal/viewcache"
)

// ComponentPayload is the create/update body for a stocked part
type ComponentPayload struct {
	Code          string   `json:"code" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Alias         string   `json:"alias"`
	Brand         string   `json:"brand"`
	Models        []string `json:"models" validate:"required,min=1,dive,required"`
	Category      string   `json:"category"`
	Quality       string   `json:"quality"`
	SupplierID    *uint    `json:"supplierId"`
	SupplierName  string   `json:"supplierName"`
	Stock         int      `json:"stock" validate:"gte=0"`
	PurchasePrice float64  `json:"purchasePrice" validate:"gte=0"`
	PublicPrice   float64  `json:"publicPrice" validate:"gte=0"`
}

// QuoteRequest is the public price-quote lookup body
type QuoteRequest struct {
	Model string `json:"model" validate:"required"`
}

// QuoteItem is one quoted component enriched with its supplier identity
type QuoteItem struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Quality     string  `json:"quality"`
	PublicPrice float64 `json:"publicPrice"`
	Supplier    string  `json:"supplier"`
	InStock     bool    `json:"inStock"`
}

// listComponents returns one page of components. The search term matches
// code, name and alias; category/brand/quality narrow further.
func (r *Router) listComponents(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	params := listquery.ParseParams(q)

	tx := r.db.Model(&models.Component{})
	if term := q.Get("search"); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		tx = tx.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ? OR LOWER(alias) LIKE ?", like, like, like)
	}
	tx = listquery.ILike(tx, "category", q.Get("category"))
	tx = listquery.ILike(tx, "brand", q.Get("brand"))
	if quality := q.Get("quality"); quality != "" {
		tx = tx.Where("quality = ?", quality)
	}

	page, err := listquery.Find[models.Component](tx, params, "id ASC")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "配件列表获取失败")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"components": page.Rows,
		"pageCount":  page.PageCount,
	})
}

// createComponent creates a stocked part
func (r *Router) createComponent(w http.ResponseWriter, req *http.Request) {
	var payload ComponentPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "配件信息不完整")
		return
	}

	component, err := payload.toModel()
	if err != nil {
		respondError(w, http.StatusBadRequest, "配件信息不完整")
		return
	}
	if err := r.db.Create(component).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "配件创建失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationComponent)
	respondSuccess(w, "配件创建成功")
}

// updateComponent updates a stocked part
func (r *Router) updateComponent(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var payload ComponentPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "配件信息不完整")
		return
	}

	component, err := payload.toModel()
	if err != nil {
		respondError(w, http.StatusBadRequest, "配件信息不完整")
		return
	}

	res := r.db.Model(&models.Component{}).Where("id = ?", id).Updates(map[string]interface{}{
		"code":           component.Code,
		"name":           component.Name,
		"alias":          component.Alias,
		"brand":          component.Brand,
		"models":         component.Models,
		"category":       component.Category,
		"quality":        component.Quality,
		"supplier_id":    component.SupplierID,
		"supplier_name":  component.SupplierName,
		"stock":          component.Stock,
		"purchase_price": component.PurchasePrice,
		"public_price":   component.PublicPrice,
	})
	if res.Error != nil || res.RowsAffected == 0 {
		respondError(w, http.StatusInternalServerError, "配件更新失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationComponent)
	respondSuccess(w, "配件更新成功")
}

// deleteComponent removes a stocked part
func (r *Router) deleteComponent(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	res := r.db.Where("id = ?", id).Delete(&models.Component{})
	if res.Error != nil || res.RowsAffected == 0 {
		respondError(w, http.StatusInternalServerError, "配件删除失败")
		return
	}

	r.views.InvalidateMutation(viewcache.MutationComponent)
	respondSuccess(w, "配件删除成功")
}

// toModel converts the payload, serializing the compatible-model list
func (p *ComponentPayload) toModel() (*models.Component, error) {
	compatible, err := json.Marshal(p.Models)
	if err != nil {
		return nil, err
	}
	return &models.Component{
		Code:          p.Code,
		Name:          p.Name,
		Alias:         p.Alias,
		Brand:         p.Brand,
		Models:        compatible,
		Category:      p.Category,
		Quality:       p.Quality,
		SupplierID:    p.SupplierID,
		SupplierName:  p.SupplierName,
		Stock:         p.Stock,
		PurchasePrice: p.PurchasePrice,
		PublicPrice:   p.PublicPrice,
	}, nil
}

// quoteByModel is the public storefront lookup: all components compatible
// with the given phone model, each enriched with live supplier identity.
// Zero matches is an expected user-facing empty state, not a failure.
func (r *Router) quoteByModel(w http.ResponseWriter, req *http.Request) {
	var quoteReq QuoteRequest
	if err := json.NewDecoder(req.Body).Decode(&quoteReq); err != nil {
		respondError(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if err := r.validate.Struct(&quoteReq); err != nil {
		respondError(w, http.StatusBadRequest, "请选择手机型号")
		return
	}

	viewPath := "/quote/" + quoteReq.Model
	if cached, ok := r.views.Get(viewPath); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	// Exact element match inside the serialized model list; the cast keeps
	// the query portable between Postgres jsonb and the SQLite test store
	pattern := `%"` + strings.ToLower(quoteReq.Model) + `"%`
	var components []models.Component
	if err := r.db.Where("LOWER(CAST(models AS TEXT)) LIKE ?", pattern).Find(&components).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "报价查询失败")
		return
	}

	if len(components) == 0 {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "error",
			"msg":    "未找到相关配件，请稍后再试",
		})
		return
	}

	items := make([]QuoteItem, 0, len(components))
	for _, c := range components {
		items = append(items, QuoteItem{
			Name:        c.Name,
			Category:    c.Category,
			Quality:     c.Quality,
			PublicPrice: c.PublicPrice,
			Supplier:    r.resolveSupplierLabel(&c),
			InStock:     c.Stock > 0,
		})
	}

	payload := map[string]interface{}{
		"status":     "success",
		"components": items,
	}
	r.views.Put(viewPath, payload)
	respondJSON(w, http.StatusOK, payload)
}

// resolveSupplierLabel looks the supplier up by id, then by name; when the
// supplier is gone the stored name string still serves as the label
func (r *Router) resolveSupplierLabel(c *models.Component) string {
	var supplier models.Supplier
	if c.SupplierID != nil {
		if err := r.db.First(&supplier, "id = ?", *c.SupplierID).Error; err == nil {
			return supplier.Name
		}
	}
	if c.SupplierName != "" {
		if err := r.db.Where("name = ?", c.SupplierName).First(&supplier).Error; err == nil {
			return supplier.Name
		}
	}
	return c.SupplierName
}
