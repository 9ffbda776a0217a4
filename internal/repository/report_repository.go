package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fleet-reporting-service/internal/model"
)

// ReportRepository runs the read-side aggregation queries. Each metric is
// aggregated independently against its own table and merged by key in the
// service layer; joining fuel, violation and maintenance rows directly
// through the shared vehicle key would multiply row counts and corrupt every
// sum.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

type MonthCount struct {
	Month string
	Count int64
}

type MonthCostCount struct {
	Month     string
	TotalCost float64
	Count     int64
}

type FuelMonthRow struct {
	Year          int
	Month         int
	TotalFuel     float64
	TotalDistance float64
	TotalFuelCost float64
}

type DepartmentCount struct {
	DepartmentID int64
	Name         string
	Count        int64
}

type DepartmentFuel struct {
	DepartmentID  int64
	TotalDistance float64
	TotalFuel     float64
	TotalFuelCost float64
}

type DepartmentCostCount struct {
	DepartmentID int64
	TotalCost    float64
	Count        int64
}

type PlateCount struct {
	PlateNumber string
	Count       int64
}

type PlateFuel struct {
	PlateNumber   string
	TotalDistance float64
	TotalFuel     float64
	TotalFuelCost float64
}

type PlateCostCount struct {
	PlateNumber string
	TotalCost   float64
	Count       int64
}

type VehicleRow struct {
	PlateNumber    string
	DepartmentID   *int64
	DepartmentName string
	Manager        string
	BrandModel     string
}

type VehicleInfo struct {
	PlateNumber      string
	DepartmentID     *int64
	DepartmentName   string
	Manager          string
	BrandModel       string
	RegistrationDate *time.Time
	PurchasePrice    float64
	PhotoURL         *string
}

type ViolationRow struct {
	ViolationTime     *time.Time
	ViolationLocation string
	Description       string
}

type MaintenanceRow struct {
	OrderNumber    string
	ProviderName   string
	RequestTime    *time.Time
	DeliveryTime   *time.Time
	CurrentMileage int64
	Cost           float64
}

type insightRow struct {
	Name  string
	Count int64
}

// byTimestamp narrows a query to the window using the table's native
// timestamp column. Column names are fixed literals at every call site, never
// caller input. Unbounded windows leave the query untouched.
func byTimestamp(q *gorm.DB, w model.Window, column string) *gorm.DB {
	if !w.Bounded() {
		return q
	}
	return q.Where(column+" >= ? AND "+column+" < ?", w.From, w.Until)
}

// byFuelMonth narrows the fuel summary, whose month lives in separate year
// and month integers, via the year*100+month encoding.
func byFuelMonth(q *gorm.DB, w model.Window, prefix string) *gorm.DB {
	if !w.Bounded() {
		return q
	}
	return q.Where(prefix+"year * 100 + "+prefix+"month BETWEEN ? AND ?", w.FromYM, w.UntilYM)
}

// monthExpr yields the SQL expression that buckets a timestamp column into a
// YYYY-MM label. Postgres and the sqlite test store spell it differently.
func (r *ReportRepository) monthExpr(column string) string {
	if r.db.Dialector.Name() == "sqlite" {
		return "strftime('%Y-%m', " + column + ")"
	}
	return "to_char(" + column + ", 'YYYY-MM')"
}

func (r *ReportRepository) CountVehicles(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Vehicle{}).Count(&n).Error
	return n, err
}

func (r *ReportRepository) CountDepartments(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Department{}).Count(&n).Error
	return n, err
}

func (r *ReportRepository) ViolationTrend(ctx context.Context, w model.Window) ([]MonthCount, error) {
	var rows []MonthCount
	expr := r.monthExpr("violation_time")

	query := r.db.WithContext(ctx).
		Table("violations").
		Select(expr + " AS month, COUNT(violation_id) AS count").
		Where("violation_time IS NOT NULL")
	query = byTimestamp(query, w, "violation_time")

	if err := query.Group("month").Order("month ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) FuelTrend(ctx context.Context, w model.Window) ([]FuelMonthRow, error) {
	var rows []FuelMonthRow

	query := r.db.WithContext(ctx).
		Table("monthly_fuel_summary").
		Select(`year, month,
			COALESCE(SUM(total_fuel_amount), 0) AS total_fuel,
			COALESCE(SUM(distance_driven), 0) AS total_distance,
			COALESCE(SUM(total_fuel_cost), 0) AS total_fuel_cost`)
	query = byFuelMonth(query, w, "")

	if err := query.Group("year, month").Order("year ASC, month ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) MaintenanceTrend(ctx context.Context, w model.Window) ([]MonthCostCount, error) {
	var rows []MonthCostCount
	expr := r.monthExpr("request_time")

	query := r.db.WithContext(ctx).
		Table("maintenance").
		Select(expr + " AS month, COALESCE(SUM(maintenance_cost), 0) AS total_cost, COUNT(maintenance_id) AS count").
		Where("request_time IS NOT NULL")
	query = byTimestamp(query, w, "request_time")

	if err := query.Group("month").Order("month ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// VehiclesPerDepartment counts vehicles per department through a left join so
// zero-vehicle departments still appear, sorted descending by count.
func (r *ReportRepository) VehiclesPerDepartment(ctx context.Context) ([]DepartmentCount, error) {
	var rows []DepartmentCount

	query := r.db.WithContext(ctx).
		Table("departments d").
		Select("d.department_id AS department_id, d.name AS name, COUNT(v.vehicle_id) AS count").
		Joins("LEFT JOIN vehicles v ON v.department_id = d.department_id").
		Group("d.department_id, d.name").
		Order("count DESC")

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Top-1 insights. Ties fall to whichever group the store returns first; the
// ordering beyond the count is unspecified.

func (r *ReportRepository) TopViolationLocation(ctx context.Context, w model.Window) (*model.Insight, error) {
	query := r.db.WithContext(ctx).
		Table("violations").
		Select("COALESCE(violation_location, '') AS name, COUNT(violation_id) AS count")
	query = byTimestamp(query, w, "violation_time")
	return r.topOne(query.Group("name"))
}

func (r *ReportRepository) TopViolationReason(ctx context.Context, w model.Window) (*model.Insight, error) {
	query := r.db.WithContext(ctx).
		Table("violations x").
		Select("vt.description AS name, COUNT(x.violation_id) AS count").
		Joins("JOIN violation_types vt ON vt.violation_type_id = x.violation_type_id")
	query = byTimestamp(query, w, "x.violation_time")
	return r.topOne(query.Group("vt.description"))
}

func (r *ReportRepository) TopMaintenanceProvider(ctx context.Context, w model.Window) (*model.Insight, error) {
	query := r.db.WithContext(ctx).
		Table("maintenance m").
		Select("sp.name AS name, COUNT(m.maintenance_id) AS count").
		Joins("JOIN service_providers sp ON sp.provider_id = m.provider_id")
	query = byTimestamp(query, w, "m.request_time")
	return r.topOne(query.Group("sp.name"))
}

func (r *ReportRepository) topOne(query *gorm.DB) (*model.Insight, error) {
	var rows []insightRow
	if err := query.Order("count DESC").Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &model.Insight{Name: rows[0].Name, Count: rows[0].Count}, nil
}

// Per-metric rollups keyed by department. Rows whose plate number resolves to
// no department are orphans and stay out of the result.

func (r *ReportRepository) FuelByDepartment(ctx context.Context, w model.Window) ([]DepartmentFuel, error) {
	var rows []DepartmentFuel

	query := r.db.WithContext(ctx).
		Table("monthly_fuel_summary f").
		Select(`v.department_id AS department_id,
			COALESCE(SUM(f.distance_driven), 0) AS total_distance,
			COALESCE(SUM(f.total_fuel_amount), 0) AS total_fuel,
			COALESCE(SUM(f.total_fuel_cost), 0) AS total_fuel_cost`).
		Joins("JOIN vehicles v ON v.plate_number = f.plate_number").
		Where("v.department_id IS NOT NULL")
	query = byFuelMonth(query, w, "f.")

	if err := query.Group("v.department_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) ViolationsByDepartment(ctx context.Context, w model.Window) ([]DepartmentCount, error) {
	var rows []DepartmentCount

	query := r.db.WithContext(ctx).
		Table("violations x").
		Select("v.department_id AS department_id, COUNT(x.violation_id) AS count").
		Joins("JOIN vehicles v ON v.plate_number = x.plate_number").
		Where("v.department_id IS NOT NULL")
	query = byTimestamp(query, w, "x.violation_time")

	if err := query.Group("v.department_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) MaintenanceByDepartment(ctx context.Context, w model.Window) ([]DepartmentCostCount, error) {
	var rows []DepartmentCostCount

	query := r.db.WithContext(ctx).
		Table("maintenance m").
		Select("v.department_id AS department_id, COALESCE(SUM(m.maintenance_cost), 0) AS total_cost, COUNT(m.maintenance_id) AS count").
		Joins("JOIN vehicles v ON v.plate_number = m.plate_number").
		Where("v.department_id IS NOT NULL")
	query = byTimestamp(query, w, "m.request_time")

	if err := query.Group("v.department_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Per-metric rollups keyed by plate number.

func (r *ReportRepository) FuelByVehicle(ctx context.Context, w model.Window) ([]PlateFuel, error) {
	var rows []PlateFuel

	query := r.db.WithContext(ctx).
		Table("monthly_fuel_summary").
		Select(`plate_number,
			COALESCE(SUM(distance_driven), 0) AS total_distance,
			COALESCE(SUM(total_fuel_amount), 0) AS total_fuel,
			COALESCE(SUM(total_fuel_cost), 0) AS total_fuel_cost`)
	query = byFuelMonth(query, w, "")

	if err := query.Group("plate_number").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) ViolationsByVehicle(ctx context.Context, w model.Window) ([]PlateCount, error) {
	var rows []PlateCount

	query := r.db.WithContext(ctx).
		Table("violations").
		Select("plate_number, COUNT(violation_id) AS count").
		Where("plate_number IS NOT NULL")
	query = byTimestamp(query, w, "violation_time")

	if err := query.Group("plate_number").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) MaintenanceByVehicle(ctx context.Context, w model.Window) ([]PlateCostCount, error) {
	var rows []PlateCostCount

	query := r.db.WithContext(ctx).
		Table("maintenance").
		Select("plate_number, COALESCE(SUM(maintenance_cost), 0) AS total_cost, COUNT(maintenance_id) AS count").
		Where("plate_number IS NOT NULL")
	query = byTimestamp(query, w, "request_time")

	if err := query.Group("plate_number").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Vehicles returns the full key universe the per-vehicle merge is seeded
// from, with department names resolved.
func (r *ReportRepository) Vehicles(ctx context.Context) ([]VehicleRow, error) {
	var rows []VehicleRow

	query := r.db.WithContext(ctx).
		Table("vehicles v").
		Select("v.plate_number, v.department_id, COALESCE(d.name, '') AS department_name, v.manager, v.brand_model").
		Joins("LEFT JOIN departments d ON d.department_id = v.department_id").
		Order("v.plate_number ASC")

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) Departments(ctx context.Context) ([]model.Department, error) {
	var rows []model.Department
	if err := r.db.WithContext(ctx).Order("department_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FleetWindowKPIs computes fleet totals over the window as independent
// full-table aggregations. They must agree with the per-department sum for
// every department that owns at least one vehicle.
func (r *ReportRepository) FleetWindowKPIs(ctx context.Context, w model.Window) (model.FleetWindowKPI, error) {
	var kpi model.FleetWindowKPI

	if err := r.db.WithContext(ctx).Model(&model.Vehicle{}).Count(&kpi.VehicleCount).Error; err != nil {
		return model.FleetWindowKPI{}, err
	}

	var fuel struct {
		TotalDistance float64
		TotalFuel     float64
	}
	fuelQuery := r.db.WithContext(ctx).
		Table("monthly_fuel_summary").
		Select("COALESCE(SUM(distance_driven), 0) AS total_distance, COALESCE(SUM(total_fuel_amount), 0) AS total_fuel")
	fuelQuery = byFuelMonth(fuelQuery, w, "")
	if err := fuelQuery.Scan(&fuel).Error; err != nil {
		return model.FleetWindowKPI{}, err
	}
	kpi.TotalDistance = fuel.TotalDistance
	kpi.TotalFuel = fuel.TotalFuel

	// No timestamp guard here: rows without a violation_time cannot be
	// bucketed into a trend, but they are still violations, and this count
	// must agree with the per-department rollup which includes them.
	violationQuery := r.db.WithContext(ctx).Table("violations")
	violationQuery = byTimestamp(violationQuery, w, "violation_time")
	if err := violationQuery.Count(&kpi.ViolationCount).Error; err != nil {
		return model.FleetWindowKPI{}, err
	}

	var maint struct {
		TotalCost float64
	}
	maintQuery := r.db.WithContext(ctx).
		Table("maintenance").
		Select("COALESCE(SUM(maintenance_cost), 0) AS total_cost")
	maintQuery = byTimestamp(maintQuery, w, "request_time")
	if err := maintQuery.Scan(&maint).Error; err != nil {
		return model.FleetWindowKPI{}, err
	}
	kpi.MaintenanceCost = maint.TotalCost

	return kpi, nil
}

// Detail lookups.

func (r *ReportRepository) VehicleByPlate(ctx context.Context, plate string) (VehicleInfo, error) {
	var info VehicleInfo

	err := r.db.WithContext(ctx).
		Table("vehicles v").
		Select(`v.plate_number, v.department_id, COALESCE(d.name, '') AS department_name,
			v.manager, v.brand_model, v.registration_date, v.purchase_price, v.photo_url`).
		Joins("LEFT JOIN departments d ON d.department_id = v.department_id").
		Where("v.plate_number = ?", plate).
		Take(&info).Error
	if err != nil {
		return VehicleInfo{}, err
	}
	return info, nil
}

func (r *ReportRepository) DepartmentByID(ctx context.Context, id int64) (model.Department, error) {
	var dept model.Department
	if err := r.db.WithContext(ctx).Take(&dept, "department_id = ?", id).Error; err != nil {
		return model.Department{}, err
	}
	return dept, nil
}

func (r *ReportRepository) FuelRowsByPlate(ctx context.Context, plate string, w model.Window) ([]model.MonthlyFuelSummary, error) {
	var rows []model.MonthlyFuelSummary

	query := r.db.WithContext(ctx).Where("plate_number = ?", plate)
	query = byFuelMonth(query, w, "")

	if err := query.Order("year ASC, month ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) ViolationRowsByPlate(ctx context.Context, plate string, w model.Window) ([]ViolationRow, error) {
	var rows []ViolationRow

	query := r.db.WithContext(ctx).
		Table("violations x").
		Select("x.violation_time, x.violation_location, COALESCE(vt.description, '') AS description").
		Joins("LEFT JOIN violation_types vt ON vt.violation_type_id = x.violation_type_id").
		Where("x.plate_number = ?", plate)
	query = byTimestamp(query, w, "x.violation_time")

	if err := query.Order("x.violation_time ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) MaintenanceRowsByPlate(ctx context.Context, plate string, w model.Window) ([]MaintenanceRow, error) {
	var rows []MaintenanceRow

	query := r.db.WithContext(ctx).
		Table("maintenance m").
		Select(`m.order_number, COALESCE(sp.name, '') AS provider_name, m.request_time,
			m.delivery_time, m.current_mileage, COALESCE(m.maintenance_cost, 0) AS cost`).
		Joins("LEFT JOIN service_providers sp ON sp.provider_id = m.provider_id").
		Where("m.plate_number = ?", plate)
	query = byTimestamp(query, w, "m.request_time")

	if err := query.Order("m.request_time ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) ViolationTrendByPlate(ctx context.Context, plate string, w model.Window) ([]MonthCount, error) {
	var rows []MonthCount
	expr := r.monthExpr("violation_time")

	query := r.db.WithContext(ctx).
		Table("violations").
		Select(expr+" AS month, COUNT(violation_id) AS count").
		Where("plate_number = ? AND violation_time IS NOT NULL", plate)
	query = byTimestamp(query, w, "violation_time")

	if err := query.Group("month").Order("month ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ViolationCountsForDepartment returns full-history violation counts for
// every vehicle of a department, zero-violation vehicles included. The rank
// on the vehicle detail is deliberately computed without the active window,
// while the trend next to it honors the window.
func (r *ReportRepository) ViolationCountsForDepartment(ctx context.Context, departmentID int64) ([]PlateCount, error) {
	var rows []PlateCount

	query := r.db.WithContext(ctx).
		Table("vehicles v").
		Select("v.plate_number, COUNT(x.violation_id) AS count").
		Joins("LEFT JOIN violations x ON x.plate_number = v.plate_number").
		Where("v.department_id = ?", departmentID).
		Group("v.plate_number")

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Department-scoped trend queries for the department detail view.

func (r *ReportRepository) ViolationTrendForDepartment(ctx context.Context, departmentID int64, w model.Window) ([]MonthCount, error) {
	var rows []MonthCount
	expr := r.monthExpr("x.violation_time")

	query := r.db.WithContext(ctx).
		Table("violations x").
		Select(expr+" AS month, COUNT(x.violation_id) AS count").
		Joins("JOIN vehicles v ON v.plate_number = x.plate_number").
		Where("v.department_id = ? AND x.violation_time IS NOT NULL", departmentID)
	query = byTimestamp(query, w, "x.violation_time")

	if err := query.Group("month").Order("month ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) FuelTrendForDepartment(ctx context.Context, departmentID int64, w model.Window) ([]FuelMonthRow, error) {
	var rows []FuelMonthRow

	query := r.db.WithContext(ctx).
		Table("monthly_fuel_summary f").
		Select(`f.year, f.month,
			COALESCE(SUM(f.total_fuel_amount), 0) AS total_fuel,
			COALESCE(SUM(f.distance_driven), 0) AS total_distance,
			COALESCE(SUM(f.total_fuel_cost), 0) AS total_fuel_cost`).
		Joins("JOIN vehicles v ON v.plate_number = f.plate_number").
		Where("v.department_id = ?", departmentID)
	query = byFuelMonth(query, w, "f.")

	if err := query.Group("f.year, f.month").Order("f.year ASC, f.month ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) MaintenanceTrendForDepartment(ctx context.Context, departmentID int64, w model.Window) ([]MonthCostCount, error) {
	var rows []MonthCostCount
	expr := r.monthExpr("m.request_time")

	query := r.db.WithContext(ctx).
		Table("maintenance m").
		Select(expr+" AS month, COALESCE(SUM(m.maintenance_cost), 0) AS total_cost, COUNT(m.maintenance_id) AS count").
		Joins("JOIN vehicles v ON v.plate_number = m.plate_number").
		Where("v.department_id = ? AND m.request_time IS NOT NULL", departmentID)
	query = byTimestamp(query, w, "m.request_time")

	if err := query.Group("month").Order("month ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
