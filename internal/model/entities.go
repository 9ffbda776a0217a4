package model

import "time"

// The tables below mirror the normalized fleet schema. Violations, maintenance
// orders and fuel summaries reference vehicles by plate number, not by the
// numeric id; plate_number is the business key for every join.

type Department struct {
	DepartmentID int64  `gorm:"column:department_id;primaryKey;autoIncrement" json:"department_id"`
	Name         string `gorm:"column:name;not null;unique" json:"name"`
}

func (Department) TableName() string { return "departments" }

type Vehicle struct {
	VehicleID        int64      `gorm:"column:vehicle_id;primaryKey" json:"vehicle_id"`
	PlateNumber      string     `gorm:"column:plate_number;not null;unique" json:"plate_number"`
	DepartmentID     *int64     `gorm:"column:department_id" json:"department_id"`
	Manager          string     `gorm:"column:manager" json:"manager"`
	BrandModel       string     `gorm:"column:brand_model" json:"brand_model"`
	Displacement     float64    `gorm:"column:displacement" json:"displacement"`
	Capacity         int        `gorm:"column:capacity" json:"capacity"`
	RegistrationDate *time.Time `gorm:"column:registration_date" json:"registration_date"`
	PurchasePrice    float64    `gorm:"column:purchase_price" json:"purchase_price"`
	Notes            string     `gorm:"column:notes" json:"notes"`
	PhotoURL         *string    `gorm:"column:photo_url" json:"photo_url"`
}

func (Vehicle) TableName() string { return "vehicles" }

type ViolationType struct {
	ViolationTypeID int64  `gorm:"column:violation_type_id;primaryKey;autoIncrement" json:"violation_type_id"`
	Description     string `gorm:"column:description;not null;unique" json:"description"`
}

func (ViolationType) TableName() string { return "violation_types" }

type Violation struct {
	ViolationID       int64      `gorm:"column:violation_id;primaryKey" json:"violation_id"`
	PlateNumber       *string    `gorm:"column:plate_number" json:"plate_number"`
	ViolationTime     *time.Time `gorm:"column:violation_time" json:"violation_time"`
	ViolationLocation string     `gorm:"column:violation_location" json:"violation_location"`
	ViolationTypeID   *int64     `gorm:"column:violation_type_id" json:"violation_type_id"`
}

func (Violation) TableName() string { return "violations" }

type ServiceProvider struct {
	ProviderID int64  `gorm:"column:provider_id;primaryKey;autoIncrement" json:"provider_id"`
	Name       string `gorm:"column:name;not null;unique" json:"name"`
}

func (ServiceProvider) TableName() string { return "service_providers" }

type Maintenance struct {
	MaintenanceID          int64      `gorm:"column:maintenance_id;primaryKey;autoIncrement" json:"maintenance_id"`
	PlateNumber            *string    `gorm:"column:plate_number" json:"plate_number"`
	OrderNumber            string     `gorm:"column:order_number" json:"order_number"`
	ProviderID             *int64     `gorm:"column:provider_id" json:"provider_id"`
	RequestTime            *time.Time `gorm:"column:request_time" json:"request_time"`
	DeliveryTime           *time.Time `gorm:"column:delivery_time" json:"delivery_time"`
	CurrentMileage         int64      `gorm:"column:current_mileage" json:"current_mileage"`
	LastMaintenanceMileage int64      `gorm:"column:last_maintenance_mileage" json:"last_maintenance_mileage"`
	ServiceDetails         string     `gorm:"column:service_details" json:"service_details"`
	// Null costs are treated as 0 in every rollup.
	MaintenanceCost *float64 `gorm:"column:maintenance_cost" json:"maintenance_cost"`
}

func (Maintenance) TableName() string { return "maintenance" }

type MonthlyFuelSummary struct {
	SummaryID              int64   `gorm:"column:summary_id;primaryKey;autoIncrement" json:"summary_id"`
	PlateNumber            string  `gorm:"column:plate_number" json:"plate_number"`
	Year                   int     `gorm:"column:year" json:"year"`
	Month                  int     `gorm:"column:month" json:"month"`
	TotalFuelCost          float64 `gorm:"column:total_fuel_cost" json:"total_fuel_cost"`
	TotalFuelAmount        float64 `gorm:"column:total_fuel_amount" json:"total_fuel_amount"`
	StartMonthMileage      int64   `gorm:"column:start_month_mileage" json:"start_month_mileage"`
	EndMonthMileage        int64   `gorm:"column:end_month_mileage" json:"end_month_mileage"`
	DistanceDriven         float64 `gorm:"column:distance_driven" json:"distance_driven"`
	AvgConsumptionPer100Km float64 `gorm:"column:avg_consumption_per_100km" json:"avg_consumption_per_100km"`
	CardNumber             string  `gorm:"column:card_number" json:"card_number"`
	Notes                  string  `gorm:"column:notes" json:"notes"`
}

func (MonthlyFuelSummary) TableName() string { return "monthly_fuel_summary" }
