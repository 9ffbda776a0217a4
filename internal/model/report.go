package model

// TrendSeries is a pair of parallel sequences ordered ascending by month
// label (YYYY-MM).
type TrendSeries struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// RankingSeries is a descending per-metric ordering of the full vehicle set,
// one entry per vehicle.
type RankingSeries struct {
	Labels      []string  `json:"labels"`
	Data        []float64 `json:"data"`
	Departments []string  `json:"departments"`
}

type Insight struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type FleetSummary struct {
	KPI         FleetKPI      `json:"kpi"`
	Charts      FleetCharts   `json:"charts"`
	InsightKPIs FleetInsights `json:"insight_kpis"`
}

type FleetKPI struct {
	TotalVehicles         int64   `json:"total_vehicles"`
	TotalDepartments      int64   `json:"total_departments"`
	TotalDistance         float64 `json:"total_distance"`
	TotalFuel             float64 `json:"total_fuel"`
	TotalFuelCost         float64 `json:"total_fuel_cost"`
	TotalViolations       int64   `json:"total_violations"`
	TotalMaintenanceCost  float64 `json:"total_maintenance_cost"`
	TotalMaintenanceCount int64   `json:"total_maintenance_count"`
}

type FleetCharts struct {
	ViolationTrend        TrendSeries `json:"violation_trend"`
	FuelTrend             TrendSeries `json:"fuel_trend"`
	MileageTrend          TrendSeries `json:"mileage_trend"`
	MaintenanceTrend      TrendSeries `json:"maintenance_trend"`
	MaintenanceCountTrend TrendSeries `json:"maintenance_count_trend"`
	VehiclesPerDepartment TrendSeries `json:"vehicles_per_department"`
}

type FleetInsights struct {
	TopViolationLocation   *Insight `json:"top_violation_location"`
	TopViolationReason     *Insight `json:"top_violation_reason"`
	TopMaintenanceProvider *Insight `json:"top_maintenance_provider"`
}

type DepartmentSummary struct {
	Departments []DepartmentRollup `json:"departments"`
	KPIs        FleetWindowKPI     `json:"kpis"`
}

type DepartmentRollup struct {
	DepartmentID         int64   `json:"department_id"`
	Name                 string  `json:"name"`
	VehicleCount         int64   `json:"vehicle_count"`
	TotalDistance        float64 `json:"total_distance"`
	TotalFuel            float64 `json:"total_fuel"`
	ViolationCount       int64   `json:"violation_count"`
	TotalMaintenanceCost float64 `json:"total_maintenance_cost"`
}

// FleetWindowKPI holds fleet-wide totals over the active window, computed as
// independent full-table aggregations rather than a sum over per-department
// rows.
type FleetWindowKPI struct {
	VehicleCount    int64   `json:"vehicle_count"`
	TotalDistance   float64 `json:"total_distance"`
	TotalFuel       float64 `json:"total_fuel"`
	ViolationCount  int64   `json:"violation_count"`
	MaintenanceCost float64 `json:"maintenance_cost"`
}

type VehicleSummary struct {
	Vehicles   []VehicleRollup `json:"vehicles"`
	Pagination Pagination      `json:"pagination"`
	ChartData  VehicleCharts   `json:"chart_data"`
	KPIs       VehicleKPIs     `json:"kpis"`
}

type VehicleRollup struct {
	PlateNumber          string  `json:"plate_number"`
	DepartmentName       string  `json:"department_name"`
	Manager              string  `json:"manager"`
	BrandModel           string  `json:"brand_model"`
	TotalDistance        float64 `json:"total_distance"`
	TotalFuel            float64 `json:"total_fuel"`
	ViolationCount       int64   `json:"violation_count"`
	TotalMaintenanceCost float64 `json:"total_maintenance_cost"`
}

type Pagination struct {
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
}

type VehicleCharts struct {
	Mileage     RankingSeries `json:"mileage"`
	Fuel        RankingSeries `json:"fuel"`
	Violations  RankingSeries `json:"violations"`
	Maintenance RankingSeries `json:"maintenance"`
}

// VehicleKPIs are summed over the full unpaged vehicle set so totals do not
// move between pages.
type VehicleKPIs struct {
	TotalDistance        float64 `json:"total_distance"`
	TotalFuel            float64 `json:"total_fuel"`
	TotalViolations      int64   `json:"total_violations"`
	TotalMaintenanceCost float64 `json:"total_maintenance_cost"`
}

type VehicleDetail struct {
	BasicInfo   VehicleBasicInfo   `json:"basic_info"`
	Mileage     MileageSection     `json:"mileage"`
	Fuel        FuelSection        `json:"fuel"`
	Violations  ViolationSection   `json:"violations"`
	Maintenance MaintenanceSection `json:"maintenance"`
}

type VehicleBasicInfo struct {
	PlateNumber      string  `json:"plate_number"`
	DepartmentName   string  `json:"department_name"`
	Manager          string  `json:"manager"`
	BrandModel       string  `json:"brand_model"`
	RegistrationDate string  `json:"registration_date"`
	PurchasePrice    float64 `json:"purchase_price"`
	PhotoURL         *string `json:"photo_url"`
}

type MileageSection struct {
	TotalDistance float64           `json:"total_distance"`
	Trend         TrendSeries       `json:"trend"`
	Details       []FuelMonthDetail `json:"details"`
}

type FuelSection struct {
	TotalFuel      float64           `json:"total_fuel"`
	TotalFuelCost  float64           `json:"total_fuel_cost"`
	AvgConsumption float64           `json:"avg_consumption"`
	Trend          TrendSeries       `json:"trend"`
	Details        []FuelMonthDetail `json:"details"`
}

type FuelMonthDetail struct {
	Month             string  `json:"month"`
	TotalFuelCost     float64 `json:"total_fuel_cost"`
	TotalFuelAmount   float64 `json:"total_fuel_amount"`
	StartMonthMileage int64   `json:"start_month_mileage"`
	EndMonthMileage   int64   `json:"end_month_mileage"`
	DistanceDriven    float64 `json:"distance_driven"`
	AvgConsumption    float64 `json:"avg_consumption_per_100km"`
	CardNumber        string  `json:"card_number"`
}

type ViolationSection struct {
	TotalCount int64               `json:"total_count"`
	RankInfo   RankInfo            `json:"rank_info"`
	Trend      TrendSeries         `json:"trend"`
	Details    []ViolationLineItem `json:"details"`
}

// RankInfo ranks the vehicle's full-history violation count against all
// vehicles of its department with competition semantics: ties share a rank
// and the next distinct count skips accordingly.
type RankInfo struct {
	Rank          int `json:"rank"`
	TotalVehicles int `json:"total_vehicles"`
}

type ViolationLineItem struct {
	ViolationTime string `json:"violation_time"`
	Location      string `json:"location"`
	Type          string `json:"type"`
}

type MaintenanceSection struct {
	TotalCount     int64                 `json:"total_count"`
	TotalCost      float64               `json:"total_cost"`
	AvgMonthlyCost float64               `json:"avg_monthly_cost"`
	Details        []MaintenanceLineItem `json:"details"`
}

type MaintenanceLineItem struct {
	OrderNumber    string  `json:"order_number"`
	Provider       string  `json:"provider"`
	RequestTime    string  `json:"request_time"`
	DeliveryTime   string  `json:"delivery_time"`
	CurrentMileage int64   `json:"current_mileage"`
	Cost           float64 `json:"cost"`
}

type DepartmentDetail struct {
	DepartmentInfo DepartmentInfo     `json:"department_info"`
	KPIs           FleetWindowKPI     `json:"kpis"`
	Trends         DepartmentTrends   `json:"trends"`
	Rankings       DepartmentRankings `json:"rankings"`
	Vehicles       []VehicleRollup    `json:"vehicles"`
}

type DepartmentInfo struct {
	DepartmentID int64  `json:"department_id"`
	Name         string `json:"name"`
}

type DepartmentTrends struct {
	Mileage     TrendSeries `json:"mileage"`
	Fuel        TrendSeries `json:"fuel"`
	Violations  TrendSeries `json:"violations"`
	Maintenance TrendSeries `json:"maintenance"`
}

type DepartmentRankings struct {
	Mileage    RankingSeries `json:"mileage"`
	Violations RankingSeries `json:"violations"`
}
