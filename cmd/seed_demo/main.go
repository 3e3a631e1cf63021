package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/fonelab/repairshopgo/internal/config"
	"github.com/fonelab/repairshopgo/internal/database"
	"github.com/fonelab/repairshopgo/internal/models"
	"github.com/fonelab/repairshopgo/internal/utils"
)

func main() {
	fmt.Println("🌱 repairshopgo Demo Data Seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	fmt.Println("🔨 Running database migrations...")
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
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")

	var userCount int64
	db.Model(&models.UserAuth{}).Count(&userCount)
	if userCount > 0 {
		fmt.Printf("⚠️  Database already has %d users. Clear it first? (y/N): ", userCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}
	}

	fmt.Println("📦 Creating demo data...")

	// Admin account
	hashed, err := utils.HashPassword("admin12345")
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}
	admin := models.UserAuth{
		Username: "admin",
		Email:    "admin@example.com",
		Password: hashed,
		Name:     "店长",
		Role:     "admin",
	}
	db.Create(&admin)
	fmt.Println("👤 Admin: admin@example.com / admin12345")

	// Brands and phones
	apple := models.Brand{Name: "Apple"}
	xiaomi := models.Brand{Name: "小米"}
	db.Create(&apple)
	db.Create(&xiaomi)
	db.Create(&models.Phone{BrandID: apple.ID, Name: "iPhone 11", Code: "A2223"})
	db.Create(&models.Phone{BrandID: apple.ID, Name: "iPhone 12", Code: "A2404"})
	db.Create(&models.Phone{BrandID: apple.ID, Name: "iPad Air 4", Code: "A2316", IsTablet: true})
	db.Create(&models.Phone{BrandID: xiaomi.ID, Name: "小米 12", Code: "2201123C"})
	fmt.Println("📱 Brands and phones created")

	// Categories
	problems := models.Category{Name: "常见故障", Type: models.CategoryTypeRepair}
	parts := models.Category{Name: "配件分类", Type: models.CategoryTypeComponent}
	db.Create(&problems)
	db.Create(&parts)
	for _, name := range []string{"碎屏", "电池老化", "进水", "无法开机"} {
		db.Create(&models.CategoryItem{CategoryID: problems.ID, Name: name})
	}
	for _, name := range []string{"屏幕总成", "电池", "后盖", "摄像头"} {
		db.Create(&models.CategoryItem{CategoryID: parts.ID, Name: name})
	}
	fmt.Println("🗂  Categories created")

	// Suppliers and components
	supplier := models.Supplier{
		Name:        "华强北配件行",
		Description: "主供苹果屏幕总成",
		Site:        "https://supplier.example.com",
	}
	db.Create(&supplier)

	screenModels, _ := json.Marshal([]string{"iPhone 11"})
	batteryModels, _ := json.Marshal([]string{"iPhone 11", "iPhone 12"})
	db.Create(&models.Component{
		Code: "SCR-IP11", Name: "iPhone 11 屏幕总成", Brand: "Apple",
		Models: screenModels, Category: "屏幕总成", Quality: "原装",
		SupplierID: &supplier.ID, SupplierName: supplier.Name,
		Stock: 12, PurchasePrice: 180, PublicPrice: 320,
	})
	db.Create(&models.Component{
		Code: "BAT-IP11", Name: "iPhone 电池", Brand: "Apple",
		Models: batteryModels, Category: "电池", Quality: "国产",
		SupplierID: &supplier.ID, SupplierName: supplier.Name,
		Stock: 30, PurchasePrice: 45, PublicPrice: 99,
	})
	fmt.Println("🔩 Suppliers and components created")

	// A customer with one open repair
	customer := models.Customer{Name: "王小明", Tel: "13800138000"}
	db.Create(&customer)
	repairProblems, _ := json.Marshal([]string{"碎屏"})
	db.Create(&models.Repair{
		TicketNo:   "R-DEMO0001",
		CustomerID: customer.ID,
		PhoneModel: "iPhone 11",
		Problems:   repairProblems,
		Status:     models.RepairStatusInProgress,
		Deposit:    100,
		Price:      320,
	})
	fmt.Println("🧾 Demo repair created")

	// Shop settings
	db.Create(&models.Setting{SettingName: "shop_name", SettingValue: "小明手机维修"})
	db.Create(&models.Setting{SettingName: "quote_notice", SettingValue: "报价仅供参考，以到店检测为准"})
	fmt.Println("⚙️  Settings created")

	fmt.Println("✅ Demo data ready")
}
