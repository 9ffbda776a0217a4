package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"fleet-reporting-service/internal/model"
	"fleet-reporting-service/internal/repository"
)

var ErrNotFound = errors.New("not found")

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// ReportService merges the per-metric aggregations into fleet, department and
// vehicle views. Every merge is seeded with the full key universe and zero
// defaults, so entities with no matching rows report 0 rather than going
// missing from the output.
type ReportService struct {
	reports *repository.ReportRepository
}

func NewReportService(reports *repository.ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

type vehicleAggregate struct {
	model.VehicleRollup
	departmentID *int64
}

func (s *ReportService) GetFleetSummary(ctx context.Context, w model.Window) (*model.FleetSummary, error) {
	totalVehicles, err := s.reports.CountVehicles(ctx)
	if err != nil {
		return nil, err
	}
	totalDepartments, err := s.reports.CountDepartments(ctx)
	if err != nil {
		return nil, err
	}

	violationTrend, err := s.reports.ViolationTrend(ctx, w)
	if err != nil {
		return nil, err
	}
	fuelTrend, err := s.reports.FuelTrend(ctx, w)
	if err != nil {
		return nil, err
	}
	maintenanceTrend, err := s.reports.MaintenanceTrend(ctx, w)
	if err != nil {
		return nil, err
	}
	perDepartment, err := s.reports.VehiclesPerDepartment(ctx)
	if err != nil {
		return nil, err
	}

	topLocation, err := s.reports.TopViolationLocation(ctx, w)
	if err != nil {
		return nil, err
	}
	topReason, err := s.reports.TopViolationReason(ctx, w)
	if err != nil {
		return nil, err
	}
	topProvider, err := s.reports.TopMaintenanceProvider(ctx, w)
	if err != nil {
		return nil, err
	}

	fuelSeries, mileageSeries, fuelCostTotal := fuelTrendSeries(fuelTrend)
	costSeries, countSeries := maintenanceTrendSeries(maintenanceTrend)

	distribution := model.TrendSeries{Labels: []string{}, Data: []float64{}}
	for _, row := range perDepartment {
		distribution.Labels = append(distribution.Labels, row.Name)
		distribution.Data = append(distribution.Data, float64(row.Count))
	}

	// KPI totals are sums over the trend series, never separate global
	// queries, so totals and charts cannot disagree.
	kpi := model.FleetKPI{
		TotalVehicles:    totalVehicles,
		TotalDepartments: totalDepartments,
		TotalFuelCost:    fuelCostTotal,
	}
	for _, row := range violationTrend {
		kpi.TotalViolations += row.Count
	}
	for _, value := range fuelSeries.Data {
		kpi.TotalFuel += value
	}
	for _, value := range mileageSeries.Data {
		kpi.TotalDistance += value
	}
	for _, row := range maintenanceTrend {
		kpi.TotalMaintenanceCost += row.TotalCost
		kpi.TotalMaintenanceCount += row.Count
	}

	return &model.FleetSummary{
		KPI: kpi,
		Charts: model.FleetCharts{
			ViolationTrend:        monthCountSeries(violationTrend),
			FuelTrend:             fuelSeries,
			MileageTrend:          mileageSeries,
			MaintenanceTrend:      costSeries,
			MaintenanceCountTrend: countSeries,
			VehiclesPerDepartment: distribution,
		},
		InsightKPIs: model.FleetInsights{
			TopViolationLocation:   topLocation,
			TopViolationReason:     topReason,
			TopMaintenanceProvider: topProvider,
		},
	}, nil
}

func (s *ReportService) GetDepartmentSummary(ctx context.Context, w model.Window) (*model.DepartmentSummary, error) {
	departments, err := s.reports.Departments(ctx)
	if err != nil {
		return nil, err
	}

	accumulator := make(map[int64]*model.DepartmentRollup, len(departments))
	ordered := make([]*model.DepartmentRollup, 0, len(departments))
	for _, dept := range departments {
		rollup := &model.DepartmentRollup{DepartmentID: dept.DepartmentID, Name: dept.Name}
		accumulator[dept.DepartmentID] = rollup
		ordered = append(ordered, rollup)
	}

	vehicleCounts, err := s.reports.VehiclesPerDepartment(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range vehicleCounts {
		if rollup, ok := accumulator[row.DepartmentID]; ok {
			rollup.VehicleCount = row.Count
		}
	}

	fuelRows, err := s.reports.FuelByDepartment(ctx, w)
	if err != nil {
		return nil, err
	}
	for _, row := range fuelRows {
		if rollup, ok := accumulator[row.DepartmentID]; ok {
			rollup.TotalDistance = row.TotalDistance
			rollup.TotalFuel = row.TotalFuel
		}
	}

	violationRows, err := s.reports.ViolationsByDepartment(ctx, w)
	if err != nil {
		return nil, err
	}
	for _, row := range violationRows {
		if rollup, ok := accumulator[row.DepartmentID]; ok {
			rollup.ViolationCount = row.Count
		}
	}

	maintenanceRows, err := s.reports.MaintenanceByDepartment(ctx, w)
	if err != nil {
		return nil, err
	}
	for _, row := range maintenanceRows {
		if rollup, ok := accumulator[row.DepartmentID]; ok {
			rollup.TotalMaintenanceCost = row.TotalCost
		}
	}

	kpis, err := s.reports.FleetWindowKPIs(ctx, w)
	if err != nil {
		return nil, err
	}

	result := make([]model.DepartmentRollup, 0, len(ordered))
	for _, rollup := range ordered {
		result = append(result, *rollup)
	}

	return &model.DepartmentSummary{Departments: result, KPIs: kpis}, nil
}

func (s *ReportService) GetVehicleSummary(ctx context.Context, w model.Window, page model.PageRequest) (*model.VehicleSummary, error) {
	page = page.Normalize()

	aggregates, err := s.buildVehicleAggregates(ctx, w)
	if err != nil {
		return nil, err
	}

	// KPIs and ranking series come from the full unpaged set so they stay
	// stable across pages.
	var kpis model.VehicleKPIs
	for _, agg := range aggregates {
		kpis.TotalDistance += agg.TotalDistance
		kpis.TotalFuel += agg.TotalFuel
		kpis.TotalViolations += agg.ViolationCount
		kpis.TotalMaintenanceCost += agg.TotalMaintenanceCost
	}

	charts := model.VehicleCharts{
		Mileage:     rankingSeries(aggregates, model.SortMileage),
		Fuel:        rankingSeries(aggregates, model.SortFuel),
		Violations:  rankingSeries(aggregates, model.SortViolations),
		Maintenance: rankingSeries(aggregates, model.SortMaintenance),
	}

	sorted := make([]vehicleAggregate, len(aggregates))
	copy(sorted, aggregates)
	sortAggregates(sorted, page.SortBy, page.SortOrder)

	total := len(sorted)
	totalPages := (total + page.PerPage - 1) / page.PerPage
	start := (page.Page - 1) * page.PerPage
	if start > total {
		start = total
	}
	end := start + page.PerPage
	if end > total {
		end = total
	}

	vehicles := make([]model.VehicleRollup, 0, end-start)
	for _, agg := range sorted[start:end] {
		vehicles = append(vehicles, agg.VehicleRollup)
	}

	return &model.VehicleSummary{
		Vehicles: vehicles,
		Pagination: model.Pagination{
			Total:       int64(total),
			PerPage:     page.PerPage,
			CurrentPage: page.Page,
			TotalPages:  totalPages,
		},
		ChartData: charts,
		KPIs:      kpis,
	}, nil
}

func (s *ReportService) GetVehicleDetail(ctx context.Context, plate string, w model.Window) (*model.VehicleDetail, error) {
	info, err := s.reports.VehicleByPlate(ctx, plate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vehicle %s", ErrNotFound, plate)
		}
		return nil, err
	}

	fuelRows, err := s.reports.FuelRowsByPlate(ctx, plate, w)
	if err != nil {
		return nil, err
	}
	violationTrend, err := s.reports.ViolationTrendByPlate(ctx, plate, w)
	if err != nil {
		return nil, err
	}
	violationRows, err := s.reports.ViolationRowsByPlate(ctx, plate, w)
	if err != nil {
		return nil, err
	}
	maintenanceRows, err := s.reports.MaintenanceRowsByPlate(ctx, plate, w)
	if err != nil {
		return nil, err
	}

	var totalDistance, totalFuel, totalFuelCost float64
	mileageTrend := model.TrendSeries{Labels: []string{}, Data: []float64{}}
	fuelTrend := model.TrendSeries{Labels: []string{}, Data: []float64{}}
	details := make([]model.FuelMonthDetail, 0, len(fuelRows))
	for _, row := range fuelRows {
		label := monthLabel(row.Year, row.Month)
		mileageTrend.Labels = append(mileageTrend.Labels, label)
		mileageTrend.Data = append(mileageTrend.Data, row.DistanceDriven)
		fuelTrend.Labels = append(fuelTrend.Labels, label)
		fuelTrend.Data = append(fuelTrend.Data, row.TotalFuelAmount)
		totalDistance += row.DistanceDriven
		totalFuel += row.TotalFuelAmount
		totalFuelCost += row.TotalFuelCost
		details = append(details, model.FuelMonthDetail{
			Month:             label,
			TotalFuelCost:     row.TotalFuelCost,
			TotalFuelAmount:   row.TotalFuelAmount,
			StartMonthMileage: row.StartMonthMileage,
			EndMonthMileage:   row.EndMonthMileage,
			DistanceDriven:    row.DistanceDriven,
			AvgConsumption:    row.AvgConsumptionPer100Km,
			CardNumber:        row.CardNumber,
		})
	}

	avgConsumption := 0.0
	if totalDistance > 0 {
		avgConsumption = totalFuel / totalDistance * 100
	}

	// The rank is computed over full unfiltered history even when the caller
	// filters the trends; that asymmetry is part of the contract.
	rankInfo := model.RankInfo{}
	if info.DepartmentID != nil {
		counts, err := s.reports.ViolationCountsForDepartment(ctx, *info.DepartmentID)
		if err != nil {
			return nil, err
		}
		rankInfo = competitionRank(counts, plate)
	}

	violationItems := make([]model.ViolationLineItem, 0, len(violationRows))
	for _, row := range violationRows {
		violationItems = append(violationItems, model.ViolationLineItem{
			ViolationTime: formatTime(row.ViolationTime, dateTimeLayout),
			Location:      row.ViolationLocation,
			Type:          row.Description,
		})
	}

	var totalMaintenanceCost float64
	maintenanceItems := make([]model.MaintenanceLineItem, 0, len(maintenanceRows))
	for _, row := range maintenanceRows {
		totalMaintenanceCost += row.Cost
		maintenanceItems = append(maintenanceItems, model.MaintenanceLineItem{
			OrderNumber:    row.OrderNumber,
			Provider:       row.ProviderName,
			RequestTime:    formatTime(row.RequestTime, dateTimeLayout),
			DeliveryTime:   formatTime(row.DeliveryTime, dateTimeLayout),
			CurrentMileage: row.CurrentMileage,
			Cost:           row.Cost,
		})
	}

	avgMonthlyCost := 0.0
	if len(maintenanceRows) > 0 {
		avgMonthlyCost = totalMaintenanceCost / float64(maintenanceMonths(maintenanceRows))
	}

	return &model.VehicleDetail{
		BasicInfo: model.VehicleBasicInfo{
			PlateNumber:      info.PlateNumber,
			DepartmentName:   info.DepartmentName,
			Manager:          info.Manager,
			BrandModel:       info.BrandModel,
			RegistrationDate: formatTime(info.RegistrationDate, dateLayout),
			PurchasePrice:    info.PurchasePrice,
			PhotoURL:         info.PhotoURL,
		},
		Mileage: model.MileageSection{
			TotalDistance: totalDistance,
			Trend:         mileageTrend,
			Details:       details,
		},
		Fuel: model.FuelSection{
			TotalFuel:      totalFuel,
			TotalFuelCost:  totalFuelCost,
			AvgConsumption: avgConsumption,
			Trend:          fuelTrend,
			Details:        details,
		},
		Violations: model.ViolationSection{
			TotalCount: int64(len(violationRows)),
			RankInfo:   rankInfo,
			Trend:      monthCountSeries(violationTrend),
			Details:    violationItems,
		},
		Maintenance: model.MaintenanceSection{
			TotalCount:     int64(len(maintenanceRows)),
			TotalCost:      totalMaintenanceCost,
			AvgMonthlyCost: avgMonthlyCost,
			Details:        maintenanceItems,
		},
	}, nil
}

func (s *ReportService) GetDepartmentDetail(ctx context.Context, departmentID int64, w model.Window) (*model.DepartmentDetail, error) {
	dept, err := s.reports.DepartmentByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: department %d", ErrNotFound, departmentID)
		}
		return nil, err
	}

	aggregates, err := s.buildVehicleAggregates(ctx, w)
	if err != nil {
		return nil, err
	}
	members := make([]vehicleAggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg.departmentID != nil && *agg.departmentID == departmentID {
			members = append(members, agg)
		}
	}

	kpis := model.FleetWindowKPI{VehicleCount: int64(len(members))}
	vehicles := make([]model.VehicleRollup, 0, len(members))
	for _, agg := range members {
		kpis.TotalDistance += agg.TotalDistance
		kpis.TotalFuel += agg.TotalFuel
		kpis.ViolationCount += agg.ViolationCount
		kpis.MaintenanceCost += agg.TotalMaintenanceCost
		vehicles = append(vehicles, agg.VehicleRollup)
	}

	violationTrend, err := s.reports.ViolationTrendForDepartment(ctx, departmentID, w)
	if err != nil {
		return nil, err
	}
	fuelTrend, err := s.reports.FuelTrendForDepartment(ctx, departmentID, w)
	if err != nil {
		return nil, err
	}
	maintenanceTrend, err := s.reports.MaintenanceTrendForDepartment(ctx, departmentID, w)
	if err != nil {
		return nil, err
	}

	fuelSeries, mileageSeries, _ := fuelTrendSeries(fuelTrend)
	costSeries, _ := maintenanceTrendSeries(maintenanceTrend)

	return &model.DepartmentDetail{
		DepartmentInfo: model.DepartmentInfo{DepartmentID: dept.DepartmentID, Name: dept.Name},
		KPIs:           kpis,
		Trends: model.DepartmentTrends{
			Mileage:     mileageSeries,
			Fuel:        fuelSeries,
			Violations:  monthCountSeries(violationTrend),
			Maintenance: costSeries,
		},
		Rankings: model.DepartmentRankings{
			Mileage:    rankingSeries(members, model.SortMileage),
			Violations: rankingSeries(members, model.SortViolations),
		},
		Vehicles: vehicles,
	}, nil
}

// buildVehicleAggregates left-joins the three independent per-vehicle metric
// results into an accumulator seeded with every vehicle, defaulting missing
// metrics to 0. Metric rows whose plate is unknown to the vehicle table are
// orphans and fall out here.
func (s *ReportService) buildVehicleAggregates(ctx context.Context, w model.Window) ([]vehicleAggregate, error) {
	vehicles, err := s.reports.Vehicles(ctx)
	if err != nil {
		return nil, err
	}
	fuelRows, err := s.reports.FuelByVehicle(ctx, w)
	if err != nil {
		return nil, err
	}
	violationRows, err := s.reports.ViolationsByVehicle(ctx, w)
	if err != nil {
		return nil, err
	}
	maintenanceRows, err := s.reports.MaintenanceByVehicle(ctx, w)
	if err != nil {
		return nil, err
	}

	fuelByPlate := make(map[string]repository.PlateFuel, len(fuelRows))
	for _, row := range fuelRows {
		fuelByPlate[row.PlateNumber] = row
	}
	violationsByPlate := make(map[string]int64, len(violationRows))
	for _, row := range violationRows {
		violationsByPlate[row.PlateNumber] = row.Count
	}
	maintenanceByPlate := make(map[string]repository.PlateCostCount, len(maintenanceRows))
	for _, row := range maintenanceRows {
		maintenanceByPlate[row.PlateNumber] = row
	}

	aggregates := make([]vehicleAggregate, 0, len(vehicles))
	for _, vehicle := range vehicles {
		agg := vehicleAggregate{
			VehicleRollup: model.VehicleRollup{
				PlateNumber:    vehicle.PlateNumber,
				DepartmentName: vehicle.DepartmentName,
				Manager:        vehicle.Manager,
				BrandModel:     vehicle.BrandModel,
			},
			departmentID: vehicle.DepartmentID,
		}
		if fuel, ok := fuelByPlate[vehicle.PlateNumber]; ok {
			agg.TotalDistance = fuel.TotalDistance
			agg.TotalFuel = fuel.TotalFuel
		}
		agg.ViolationCount = violationsByPlate[vehicle.PlateNumber]
		if maint, ok := maintenanceByPlate[vehicle.PlateNumber]; ok {
			agg.TotalMaintenanceCost = maint.TotalCost
		}
		aggregates = append(aggregates, agg)
	}
	return aggregates, nil
}

func metricValue(agg vehicleAggregate, field model.SortField) float64 {
	switch field {
	case model.SortFuel:
		return agg.TotalFuel
	case model.SortViolations:
		return float64(agg.ViolationCount)
	case model.SortMaintenance:
		return agg.TotalMaintenanceCost
	default:
		return agg.TotalDistance
	}
}

func sortAggregates(aggregates []vehicleAggregate, field model.SortField, order model.SortOrder) {
	sort.SliceStable(aggregates, func(i, j int) bool {
		left, right := metricValue(aggregates[i], field), metricValue(aggregates[j], field)
		if left == right {
			return aggregates[i].PlateNumber < aggregates[j].PlateNumber
		}
		if order == model.SortAsc {
			return left < right
		}
		return left > right
	})
}

// rankingSeries orders the full vehicle set descending by one metric. Its
// length always equals the number of vehicles, independent of pagination.
func rankingSeries(aggregates []vehicleAggregate, field model.SortField) model.RankingSeries {
	sorted := make([]vehicleAggregate, len(aggregates))
	copy(sorted, aggregates)
	sortAggregates(sorted, field, model.SortDesc)

	series := model.RankingSeries{
		Labels:      make([]string, 0, len(sorted)),
		Data:        make([]float64, 0, len(sorted)),
		Departments: make([]string, 0, len(sorted)),
	}
	for _, agg := range sorted {
		series.Labels = append(series.Labels, agg.PlateNumber)
		series.Data = append(series.Data, metricValue(agg, field))
		series.Departments = append(series.Departments, agg.DepartmentName)
	}
	return series
}

// competitionRank ranks one plate's violation count against its department
// peers: equal counts share a rank and the next distinct count skips the tied
// positions, standard RANK() semantics.
func competitionRank(counts []repository.PlateCount, plate string) model.RankInfo {
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	rank := 0
	for i, row := range counts {
		if i == 0 || row.Count < counts[i-1].Count {
			rank = i + 1
		}
		if row.PlateNumber == plate {
			return model.RankInfo{Rank: rank, TotalVehicles: len(counts)}
		}
	}
	return model.RankInfo{TotalVehicles: len(counts)}
}

// maintenanceMonths counts the whole calendar months spanned by the filtered
// maintenance set, floored at 1 so a single record divides by one month.
func maintenanceMonths(rows []repository.MaintenanceRow) int {
	var earliest, latest *time.Time
	for _, row := range rows {
		if row.RequestTime == nil {
			continue
		}
		if earliest == nil || row.RequestTime.Before(*earliest) {
			earliest = row.RequestTime
		}
		if latest == nil || row.RequestTime.After(*latest) {
			latest = row.RequestTime
		}
	}
	if earliest == nil || latest == nil {
		return 1
	}
	months := (latest.Year()-earliest.Year())*12 + int(latest.Month()) - int(earliest.Month())
	if months < 1 {
		return 1
	}
	return months
}

func monthCountSeries(rows []repository.MonthCount) model.TrendSeries {
	series := model.TrendSeries{Labels: []string{}, Data: []float64{}}
	for _, row := range rows {
		series.Labels = append(series.Labels, row.Month)
		series.Data = append(series.Data, float64(row.Count))
	}
	return series
}

func fuelTrendSeries(rows []repository.FuelMonthRow) (fuel, mileage model.TrendSeries, totalFuelCost float64) {
	fuel = model.TrendSeries{Labels: []string{}, Data: []float64{}}
	mileage = model.TrendSeries{Labels: []string{}, Data: []float64{}}
	for _, row := range rows {
		label := monthLabel(row.Year, row.Month)
		fuel.Labels = append(fuel.Labels, label)
		fuel.Data = append(fuel.Data, row.TotalFuel)
		mileage.Labels = append(mileage.Labels, label)
		mileage.Data = append(mileage.Data, row.TotalDistance)
		totalFuelCost += row.TotalFuelCost
	}
	return fuel, mileage, totalFuelCost
}

func maintenanceTrendSeries(rows []repository.MonthCostCount) (cost, count model.TrendSeries) {
	cost = model.TrendSeries{Labels: []string{}, Data: []float64{}}
	count = model.TrendSeries{Labels: []string{}, Data: []float64{}}
	for _, row := range rows {
		cost.Labels = append(cost.Labels, row.Month)
		cost.Data = append(cost.Data, row.TotalCost)
		count.Labels = append(count.Labels, row.Month)
		count.Data = append(count.Data, float64(row.Count))
	}
	return cost, count
}

func monthLabel(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func formatTime(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}
