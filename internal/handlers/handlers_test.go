package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fonelab/repairshopgo/internal/config"
	"github.com/fonelab/repairshopgo/internal/database"
	"github.com/fonelab/repairshopgo/internal/models"
	"github.com/fonelab/repairshopgo/internal/utils"
)

// newTestRouter builds a router over a fresh in-memory database
func newTestRouter(t *testing.T) *Router {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.Customer{},
		&models.Repair{},
		&models.Warranty{},
		&models.Component{},
		&models.Supplier{},
		&models.Brand{},
		&models.Phone{},
		&models.Category{},
		&models.CategoryItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Setting{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret: "test-secret-key",
		EncKey:    "test-enc-key",
		StaticDir: t.TempDir(),
	}
	return NewRouter(&database.DB{DB: db}, cfg)
}

// seedUser creates a staff account and returns it with its session token
func seedUser(t *testing.T, r *Router, email, password string) (*models.UserAuth, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.UserAuth{Username: email, Email: email, Password: hash}
	if err := r.db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	token, err := utils.GenerateSessionToken(user, r.cfg.JWTSecret)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, token
}

// doJSON performs a request with an optional bearer token and JSON body
func doJSON(r *Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestAuthGateProtectsAPI(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	w := doJSON(r, "GET", "/api/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, "GET", "/api/customers", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListCustomersPaginated(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	// 12 customers matching tel filter "333", plus noise that must not count
	for i := 1; i <= 12; i++ {
		r.db.Create(&models.Customer{Name: fmt.Sprintf("C%02d", i), Tel: fmt.Sprintf("333%07d", i)})
	}
	for i := 1; i <= 5; i++ {
		r.db.Create(&models.Customer{Name: fmt.Sprintf("N%02d", i), Tel: fmt.Sprintf("555%07d", i)})
	}

	w := doJSON(r, "GET", "/api/customers?page=2&per_page=5&tel=333", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["pageCount"])

	rows := body["customers"].([]interface{})
	assert.Len(t, rows, 5)
	// Rows 6-10 of the filtered set in ascending id order
	assert.Equal(t, "C06", rows[0].(map[string]interface{})["name"])
	assert.Equal(t, "C10", rows[4].(map[string]interface{})["name"])
}

func TestListCustomersEmpty(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	w := doJSON(r, "GET", "/api/customers?tel=999", token, nil)
	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["pageCount"])
	assert.Empty(t, body["customers"])
}

func TestRepairIntakeUpsertsCustomer(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	payload := map[string]interface{}{
		"phoneModel": "iPhone 11",
		"problems":   []string{"screen"},
		"tel":        "3331234567",
		"name":       "Mario",
		"deposit":    50,
		"price":      200,
	}

	// No customer with this tel yet: both rows created together
	w := doJSON(r, "POST", "/api/repairs", token, payload)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decodeBody(t, w)["status"])

	var customers []models.Customer
	r.db.Find(&customers)
	assert.Len(t, customers, 1)

	var repair models.Repair
	assert.NoError(t, r.db.First(&repair).Error)
	assert.Equal(t, customers[0].ID, repair.CustomerID)
	assert.Equal(t, models.RepairStatusInProgress, repair.Status)
	assert.NotEmpty(t, repair.TicketNo)

	// Same tel again: the repair attaches, no duplicate customer row
	payload["phoneModel"] = "iPhone 12"
	w = doJSON(r, "POST", "/api/repairs", token, payload)
	assert.Equal(t, "success", decodeBody(t, w)["status"])

	r.db.Find(&customers)
	assert.Len(t, customers, 1)

	var repairCount int64
	r.db.Model(&models.Repair{}).Count(&repairCount)
	assert.Equal(t, int64(2), repairCount)
}

func TestListRepairsNewestFirst(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	customer := models.Customer{Name: "Mario", Tel: "3331234567"}
	r.db.Create(&customer)
	for i := 1; i <= 3; i++ {
		r.db.Create(&models.Repair{
			TicketNo:   fmt.Sprintf("R-%04d", i),
			CustomerID: customer.ID,
			PhoneModel: "iPhone 11",
		})
	}

	w := doJSON(r, "GET", "/api/repairs", token, nil)
	body := decodeBody(t, w)
	rows := body["repairs"].([]interface{})
	assert.Len(t, rows, 3)
	assert.Equal(t, "R-0003", rows[0].(map[string]interface{})["ticketNo"])
}

func TestRepairPickupCreatesWarranty(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	customer := models.Customer{Name: "Mario", Tel: "3331234567"}
	r.db.Create(&customer)
	repair := models.Repair{TicketNo: "R-0001", CustomerID: customer.ID, PhoneModel: "iPhone 11"}
	r.db.Create(&repair)

	payload := map[string]interface{}{
		"phoneModel": "iPhone 11",
		"problems":   []string{"screen"},
		"status":     models.RepairStatusPickedUp,
		"deposit":    0,
		"price":      200,
	}
	w := doJSON(r, "PUT", fmt.Sprintf("/api/repairs/%d", repair.ID), token, payload)
	assert.Equal(t, "success", decodeBody(t, w)["status"])

	var warranty models.Warranty
	assert.NoError(t, r.db.Where("repair_id = ?", repair.ID).First(&warranty).Error)
	assert.False(t, warranty.IsRework)
}

func TestWarrantyReworkAtomic(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	customer := models.Customer{Name: "Mario", Tel: "3331234567"}
	r.db.Create(&customer)
	repair := models.Repair{
		TicketNo:   "R-0001",
		CustomerID: customer.ID,
		PhoneModel: "iPhone 11",
		Status:     models.RepairStatusPickedUp,
	}
	r.db.Create(&repair)
	warranty := models.Warranty{RepairID: repair.ID}
	r.db.Create(&warranty)

	w := doJSON(r, "PUT", fmt.Sprintf("/api/warranties/rework/%d", warranty.ID), token, nil)
	assert.Equal(t, "success", decodeBody(t, w)["status"])

	var gotWarranty models.Warranty
	var gotRepair models.Repair
	r.db.First(&gotWarranty, warranty.ID)
	r.db.First(&gotRepair, repair.ID)
	assert.True(t, gotWarranty.IsRework)
	assert.True(t, gotRepair.IsRework)
	assert.Equal(t, models.RepairStatusRework, gotRepair.Status)

	// A missing warranty leaves everything untouched
	w = doJSON(r, "PUT", "/api/warranties/rework/9999", token, nil)
	assert.Equal(t, "error", decodeBody(t, w)["status"])
}

func TestRepairUnderReworkCannotBeDeleted(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	customer := models.Customer{Name: "Mario", Tel: "3331234567"}
	r.db.Create(&customer)
	repair := models.Repair{
		TicketNo:   "R-0001",
		CustomerID: customer.ID,
		PhoneModel: "iPhone 11",
		Status:     models.RepairStatusRework,
		IsRework:   true,
	}
	r.db.Create(&repair)

	w := doJSON(r, "DELETE", fmt.Sprintf("/api/repairs/%d", repair.ID), token, nil)
	assert.Equal(t, "error", decodeBody(t, w)["status"])

	var count int64
	r.db.Model(&models.Repair{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLoginGenericErrorMessage(t *testing.T) {
	r := newTestRouter(t)
	seedUser(t, r, "x@x.com", "rightpassword")

	wrongPassword := doJSON(r, "POST", "/auth/login", "", map[string]string{
		"email":    "x@x.com",
		"password": "wrong",
	})
	unknownEmail := doJSON(r, "POST", "/auth/login", "", map[string]string{
		"email":    "nobody@x.com",
		"password": "wrong",
	})

	bodyA := decodeBody(t, wrongPassword)
	bodyB := decodeBody(t, unknownEmail)
	assert.Equal(t, "error", bodyA["status"])
	assert.Equal(t, "error", bodyB["status"])
	// Anti-enumeration: the two failures are indistinguishable
	assert.Equal(t, bodyA["msg"], bodyB["msg"])
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
}

func TestLoginSuccess(t *testing.T) {
	r := newTestRouter(t)
	seedUser(t, r, "x@x.com", "rightpassword")

	w := doJSON(r, "POST", "/auth/login", "", map[string]string{
		"email":    "x@x.com",
		"password": "rightpassword",
	})
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["token"])

	// The issued token passes the gate
	w = doJSON(r, "GET", "/api/customers", body["token"].(string), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTOTPLoginFlow(t *testing.T) {
	r := newTestRouter(t)
	user, _ := seedUser(t, r, "x@x.com", "rightpassword")

	secret, err := utils.GenerateTOTPSecret(user.Email)
	assert.NoError(t, err)
	r.db.Model(user).Updates(map[string]interface{}{"totp_secret": secret, "totp_enabled": true})

	// Password alone only yields a pending token
	w := doJSON(r, "POST", "/auth/login", "", map[string]string{
		"email":    "x@x.com",
		"password": "rightpassword",
	})
	body := decodeBody(t, w)
	assert.Equal(t, "totp", body["status"])
	pending := body["token"].(string)

	// The pending token is anonymous to the gate
	w = doJSON(r, "GET", "/api/customers", pending, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A valid code completes the login
	code, err := totp.GenerateCode(secret, time.Now())
	assert.NoError(t, err)
	w = doJSON(r, "POST", "/auth/totp", pending, map[string]string{"code": code})
	body = decodeBody(t, w)
	assert.Equal(t, "success", body["status"])

	w = doJSON(r, "GET", "/api/customers", body["token"].(string), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQuoteByModel(t *testing.T) {
	r := newTestRouter(t)

	supplier := models.Supplier{Name: "Parts Depot"}
	r.db.Create(&supplier)

	screenModels, _ := json.Marshal([]string{"iPhone 11", "iPhone XR"})
	r.db.Create(&models.Component{
		Code: "SCR-1", Name: "Screen", Models: screenModels,
		Category: "屏幕总成", Quality: "原装",
		SupplierID: &supplier.ID, SupplierName: supplier.Name,
		Stock: 3, PublicPrice: 320,
	})

	ghostModels, _ := json.Marshal([]string{"iPhone 11"})
	r.db.Create(&models.Component{
		Code: "BAT-1", Name: "Battery", Models: ghostModels,
		Category: "电池", Quality: "国产",
		SupplierName: "Ghost Co", // supplier row never existed / deleted
		Stock:        0, PublicPrice: 99,
	})

	// Quote is public: no token
	w := doJSON(r, "POST", "/api/quote", "", map[string]string{"model": "iPhone 11"})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])

	items := body["components"].([]interface{})
	assert.Len(t, items, 2)

	byName := map[string]map[string]interface{}{}
	for _, raw := range items {
		item := raw.(map[string]interface{})
		byName[item["name"].(string)] = item
	}
	assert.Equal(t, "Parts Depot", byName["Screen"]["supplier"])
	assert.Equal(t, true, byName["Screen"]["inStock"])
	// Orphaned supplier linkage falls back to the stored name string
	assert.Equal(t, "Ghost Co", byName["Battery"]["supplier"])
	assert.Equal(t, false, byName["Battery"]["inStock"])
}

func TestQuoteNoMatchIsStructuredEmptyState(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, "POST", "/api/quote", "", map[string]string{"model": "Nokia 3310"})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "未找到相关配件，请稍后再试", body["msg"])
}

func TestCategoryItemInvalidatesOnlyParentView(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	catA := models.Category{Name: "常见故障", Type: models.CategoryTypeRepair}
	catB := models.Category{Name: "配件分类", Type: models.CategoryTypeComponent}
	r.db.Create(&catA)
	r.db.Create(&catB)
	item := models.CategoryItem{CategoryID: catA.ID, Name: "碎屏"}
	r.db.Create(&item)

	pathA := fmt.Sprintf("/dashboard/categories/%d", catA.ID)
	pathB := fmt.Sprintf("/dashboard/categories/%d", catB.ID)
	r.views.Put(pathA, "viewA")
	r.views.Put(pathB, "viewB")

	w := doJSON(r, "DELETE", fmt.Sprintf("/api/category-items/%d", item.ID), token, nil)
	assert.Equal(t, "success", decodeBody(t, w)["status"])

	_, ok := r.views.Get(pathA)
	assert.False(t, ok, "parent category view must be invalidated")
	_, ok = r.views.Get(pathB)
	assert.True(t, ok, "unrelated category view must survive")
}

func TestOrderRejectsInsufficientStock(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	compatible, _ := json.Marshal([]string{"iPhone 11"})
	component := models.Component{
		Code: "SCR-1", Name: "Screen", Models: compatible,
		Stock: 2, PublicPrice: 320,
	}
	r.db.Create(&component)

	w := doJSON(r, "POST", "/api/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"componentId": component.ID, "quantity": 3},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "库存不足，销售单未创建", decodeBody(t, w)["msg"])

	// Whole order rolled back, stock untouched
	var got models.Component
	r.db.First(&got, component.ID)
	assert.Equal(t, 2, got.Stock)
	var orderCount int64
	r.db.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(0), orderCount)
}

func TestOrderDecrementsStock(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	compatible, _ := json.Marshal([]string{"iPhone 11"})
	component := models.Component{
		Code: "SCR-1", Name: "Screen", Category: "屏幕总成",
		Models: compatible, Stock: 2, PublicPrice: 320,
	}
	r.db.Create(&component)

	w := doJSON(r, "POST", "/api/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"componentId": component.ID, "quantity": 2},
		},
	})
	assert.Equal(t, "success", decodeBody(t, w)["status"])

	var got models.Component
	r.db.First(&got, component.ID)
	assert.Equal(t, 0, got.Stock)

	var order models.Order
	assert.NoError(t, r.db.Preload("Items").First(&order).Error)
	assert.Equal(t, 640.0, order.Total)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "Screen", order.Items[0].Name)
}

func TestQuoteRefreshesAfterSale(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	compatible, _ := json.Marshal([]string{"iPhone 11"})
	component := models.Component{
		Code: "SCR-1", Name: "Screen", Models: compatible,
		Stock: 1, PublicPrice: 320,
	}
	r.db.Create(&component)

	// Prime the cached quote view while the unit is still in stock
	w := doJSON(r, "POST", "/api/quote", "", map[string]string{"model": "iPhone 11"})
	items := decodeBody(t, w)["components"].([]interface{})
	assert.Equal(t, true, items[0].(map[string]interface{})["inStock"])

	// Sell the last unit
	w = doJSON(r, "POST", "/api/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"componentId": component.ID, "quantity": 1},
		},
	})
	assert.Equal(t, "success", decodeBody(t, w)["status"])

	// The re-quote must see the sale, not the cached pre-sale view
	w = doJSON(r, "POST", "/api/quote", "", map[string]string{"model": "iPhone 11"})
	items = decodeBody(t, w)["components"].([]interface{})
	assert.Equal(t, false, items[0].(map[string]interface{})["inStock"])
}

func TestQuoteRefreshesAfterSupplierRename(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	supplier := models.Supplier{Name: "Parts Depot"}
	r.db.Create(&supplier)
	compatible, _ := json.Marshal([]string{"iPhone 11"})
	r.db.Create(&models.Component{
		Code: "SCR-1", Name: "Screen", Models: compatible,
		SupplierID: &supplier.ID, SupplierName: supplier.Name,
		Stock: 3, PublicPrice: 320,
	})

	w := doJSON(r, "POST", "/api/quote", "", map[string]string{"model": "iPhone 11"})
	items := decodeBody(t, w)["components"].([]interface{})
	assert.Equal(t, "Parts Depot", items[0].(map[string]interface{})["supplier"])

	w = doJSON(r, "PUT", fmt.Sprintf("/api/suppliers/%d", supplier.ID), token, map[string]string{
		"name": "Depot Renamed",
	})
	assert.Equal(t, "success", decodeBody(t, w)["status"])

	w = doJSON(r, "POST", "/api/quote", "", map[string]string{"model": "iPhone 11"})
	items = decodeBody(t, w)["components"].([]interface{})
	assert.Equal(t, "Depot Renamed", items[0].(map[string]interface{})["supplier"])
}

func TestDeleteCategoryRemovesItems(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	category := models.Category{Name: "常见故障", Type: models.CategoryTypeRepair}
	r.db.Create(&category)
	r.db.Create(&models.CategoryItem{CategoryID: category.ID, Name: "碎屏"})
	r.db.Create(&models.CategoryItem{CategoryID: category.ID, Name: "进水"})

	w := doJSON(r, "DELETE", fmt.Sprintf("/api/categories/%d", category.ID), token, nil)
	assert.Equal(t, "success", decodeBody(t, w)["status"])

	var itemCount int64
	r.db.Model(&models.CategoryItem{}).Where("category_id = ?", category.ID).Count(&itemCount)
	assert.Equal(t, int64(0), itemCount, "items must be deleted with their category")

	// Deleted taxonomy entries disappear from form pickers
	w = doJSON(r, "GET", "/api/form/options/repair-problems", token, nil)
	assert.Empty(t, decodeBody(t, w)["options"])

	// Deleting again reports failure instead of success
	w = doJSON(r, "DELETE", fmt.Sprintf("/api/categories/%d", category.ID), token, nil)
	assert.Equal(t, "error", decodeBody(t, w)["status"])
}

func TestCookieSessionSurvivesForeignAuthHeader(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	// A non-Bearer Authorization header must not mask the session cookie
	req, _ := http.NewRequest("GET", "/api/customers", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListRepairsSkipsDeletedCustomers(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	gone := models.Customer{Name: "Gone", Tel: "3330000001"}
	alive := models.Customer{Name: "Alive", Tel: "3330000002"}
	r.db.Create(&gone)
	r.db.Create(&alive)
	r.db.Create(&models.Repair{TicketNo: "R-0001", CustomerID: gone.ID, PhoneModel: "iPhone 11"})
	r.db.Create(&models.Repair{TicketNo: "R-0002", CustomerID: alive.ID, PhoneModel: "iPhone 11"})
	r.db.Delete(&gone)

	w := doJSON(r, "GET", "/api/repairs?tel=3330000001", token, nil)
	body := decodeBody(t, w)
	assert.Empty(t, body["repairs"], "deleted customers' numbers must not match")
	assert.Equal(t, float64(0), body["pageCount"])

	w = doJSON(r, "GET", "/api/repairs?tel=3330000002", token, nil)
	assert.Len(t, decodeBody(t, w)["repairs"], 1)
}

func TestSettingsUpsert(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	w := doJSON(r, "POST", "/api/settings", token, map[string]string{
		"settingName":  "shop_name",
		"settingValue": "小明手机维修",
	})
	assert.Equal(t, "success", decodeBody(t, w)["status"])

	// Same key again overwrites instead of duplicating
	w = doJSON(r, "POST", "/api/settings", token, map[string]string{
		"settingName":  "shop_name",
		"settingValue": "小红手机维修",
	})
	assert.Equal(t, "success", decodeBody(t, w)["status"])

	var settings []models.Setting
	r.db.Find(&settings)
	assert.Len(t, settings, 1)
	assert.Equal(t, "小红手机维修", settings[0].SettingValue)
}

func TestSupplierCredentialsEncryptedAtRest(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	w := doJSON(r, "POST", "/api/suppliers", token, map[string]string{
		"name":     "Parts Depot",
		"username": "depot-user",
		"password": "portal-secret",
	})
	assert.Equal(t, "success", decodeBody(t, w)["status"])

	var supplier models.Supplier
	assert.NoError(t, r.db.First(&supplier).Error)
	assert.NotEqual(t, "portal-secret", supplier.Password)
	assert.NotEmpty(t, supplier.Password)

	plain, err := utils.DecryptSecret(supplier.Password, r.cfg.EncKey)
	assert.NoError(t, err)
	assert.Equal(t, "portal-secret", plain)
}

func TestFormOptions(t *testing.T) {
	r := newTestRouter(t)
	_, token := seedUser(t, r, "staff@example.com", "password123")

	brand := models.Brand{Name: "Apple"}
	r.db.Create(&brand)
	r.db.Create(&models.Phone{BrandID: brand.ID, Name: "iPhone 11"})

	w := doJSON(r, "GET", "/api/form/options/brands", token, nil)
	body := decodeBody(t, w)
	options := body["options"].([]interface{})
	assert.Len(t, options, 1)
	assert.Equal(t, "Apple", options[0].(map[string]interface{})["label"])

	w = doJSON(r, "GET", "/api/form/options/unknown-kind", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
