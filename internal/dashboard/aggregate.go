// FilePath: internal/dashboard/aggregate.go
package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/fleetyard/fleetdash/internal/models"
	"github.com/fleetyard/fleetdash/internal/stats"
	"github.com/fleetyard/fleetdash/internal/telematics"
)

// assemble runs the two fetch groups concurrently: the paginated trip
// feed on one side, the batched device bundle on the other. Either
// failure cancels the sibling and fails the whole load.
func (s *Service) assemble(ctx context.Context, deviceID string, r models.DateRange) (models.Snapshot, error) {
	var (
		trips  []models.Trip
		bundle *telematics.DeviceBundle
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trips, err = s.client.FetchTrips(gctx, deviceID, r)
		return err
	})
	g.Go(func() error {
		var err error
		bundle, err = s.client.FetchDeviceBundle(gctx, deviceID, r)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Snapshot{}, err
	}
	return buildSnapshot(trips, bundle, r), nil
}

// buildSnapshot joins the fetched record sets and attaches the derived
// metrics. Pure function of its inputs.
func buildSnapshot(trips []models.Trip, bundle *telematics.DeviceBundle, r models.DateRange) models.Snapshot {
	if trips == nil {
		trips = []models.Trip{}
	}
	rulesByID := make(map[string]models.Rule, len(bundle.Rules))
	for _, rule := range bundle.Rules {
		rulesByID[rule.ID] = rule
	}
	driversByID := make(map[string]models.Driver, len(bundle.Drivers))
	for _, d := range bundle.Drivers {
		driversByID[d.ID] = d
	}

	snap := models.Snapshot{
		Device:     bundle.Device,
		Trips:      trips,
		Exceptions: enrichExceptions(bundle.Exceptions, rulesByID, driversByID),
		FuelUps:    enrichFillUps(bundle.FillUps, driversByID),
		Rules:      bundle.Rules,
		Drivers:    bundle.Drivers,
	}
	snap.FuelLevel = normalizeFuelLevel(bundle.FuelLevel)
	snap.Odometer = resolveOdometer(bundle.OdometerReading, bundle.Device)
	snap.UsageStats = stats.Usage(trips)
	snap.UsageStats.FuelLevel = snap.FuelLevel
	snap.UsageStats.Odometer = snap.Odometer
	snap.UsageBreakdown = stats.Breakdown(trips, r)
	snap.ExceptionsByRule = stats.GroupByRule(snap.Exceptions)
	return snap
}

// enrichExceptions resolves rule names and driver records against the
// lookup tables loaded in the same batch. Unresolvable rules get the
// shared unknown name so grouping still works.
func enrichExceptions(events []models.ExceptionEvent, rules map[string]models.Rule, drivers map[string]models.Driver) []models.ExceptionEvent {
	enriched := make([]models.ExceptionEvent, len(events))
	for i, e := range events {
		if rule, ok := rules[e.RuleID]; ok && rule.Name != "" {
			e.RuleName = rule.Name
		} else {
			e.RuleName = models.UnknownRuleName
		}
		if d, ok := drivers[e.DriverID]; ok {
			driver := d
			e.Driver = &driver
		}
		enriched[i] = e
	}
	return enriched
}

func enrichFillUps(fills []models.FillUp, drivers map[string]models.Driver) []models.FillUp {
	enriched := make([]models.FillUp, len(fills))
	for i, f := range fills {
		if d, ok := drivers[f.DriverID]; ok {
			driver := d
			f.Driver = &driver
		}
		enriched[i] = f
	}
	return enriched
}

// normalizeFuelLevel interprets the raw reading: values at or below 1
// are a 0..1 fraction, anything above is already a percentage. The
// upstream reports both scales depending on device firmware.
func normalizeFuelLevel(reading *models.StatusReading) *float64 {
	if reading == nil {
		return nil
	}
	level := reading.Value
	if level <= 1 {
		level *= 100
	}
	return &level
}

// resolveOdometer prefers the live diagnostic reading and falls back
// to the odometer stored on the device record. Nil when neither is
// usable.
func resolveOdometer(reading *models.StatusReading, device *models.Device) *float64 {
	if reading != nil {
		value := reading.Value
		return &value
	}
	if device != nil && device.Odometer > 0 {
		value := device.Odometer
		return &value
	}
	return nil
}
