// FilePath: internal/telematics/fetch.go
package telematics

import (
	"context"
	"time"

	"github.com/fleetyard/fleetdash/internal/errors"
	"github.com/fleetyard/fleetdash/internal/models"
)

// statusWindow is how far back the dashboard looks for a current
// diagnostic reading.
const statusWindow = 7 * 24 * time.Hour

// FetchTrips returns every trip for the device within the range, fully
// paginated and normalized, in upstream order.
func (c *Client) FetchTrips(ctx context.Context, deviceID string, r models.DateRange) ([]models.Trip, error) {
	search := TripSearch{
		DeviceSearch: &DeviceSearch{ID: deviceID},
		FromDate:     r.From,
		ToDate:       r.To,
	}
	raw, err := FeedAll[wireTrip](ctx, c, TypeTrip, search)
	if err != nil {
		return nil, err
	}
	return normalizeTrips(raw), nil
}

// DeviceBundle carries everything the batched dashboard fetch returns
// for one device, already normalized.
type DeviceBundle struct {
	Device          *models.Device
	Exceptions      []models.ExceptionEvent
	FillUps         []models.FillUp
	FuelLevel       *models.StatusReading
	OdometerReading *models.StatusReading
	Rules           []models.Rule
	Drivers         []models.Driver
}

// FetchDeviceBundle issues the dashboard batch as one multi-call: the
// device record, its exceptions and fill-ups for the range, the two
// current status readings, the rule table and the driver list.
// Results decode strictly by position.
func (c *Client) FetchDeviceBundle(ctx context.Context, deviceID string, r models.DateRange) (*DeviceBundle, error) {
	now := time.Now().UTC()
	device := &DeviceSearch{ID: deviceID}
	var (
		devices    []wireDevice
		exceptions []wireException
		fillUps    []wireFillUp
		fuel       []wireStatusData
		odometer   []wireStatusData
		rules      []wireRule
		users      []wireUser
	)
	ops := []Operation{
		{Method: MethodGet, Params: GetParams{TypeName: TypeDevice, Search: device}, Result: &devices},
		{Method: MethodGet, Params: GetParams{
			TypeName: TypeExceptionEvent,
			Search:   ExceptionSearch{DeviceSearch: device, FromDate: r.From, ToDate: r.To},
		}, Result: &exceptions},
		{Method: MethodGet, Params: GetParams{
			TypeName: TypeFillUp,
			Search:   FillUpSearch{DeviceSearch: device, FromDate: r.From, ToDate: r.To},
		}, Result: &fillUps},
		{Method: MethodGet, Params: GetParams{
			TypeName: TypeStatusData,
			Search: StatusSearch{
				DeviceSearch:     device,
				DiagnosticSearch: &DiagnosticSearch{ID: DiagnosticFuelLevelID},
				FromDate:         now.Add(-statusWindow),
				ToDate:           now,
			},
			ResultsLimit: 1,
		}, Result: &fuel},
		{Method: MethodGet, Params: GetParams{
			TypeName: TypeStatusData,
			Search: StatusSearch{
				DeviceSearch:     device,
				DiagnosticSearch: &DiagnosticSearch{ID: DiagnosticOdometerID},
				FromDate:         now.Add(-statusWindow),
				ToDate:           now,
			},
			ResultsLimit: 1,
		}, Result: &odometer},
		{Method: MethodGet, Params: GetParams{TypeName: TypeRule}, Result: &rules},
		{Method: MethodGet, Params: GetParams{TypeName: TypeUser, Search: UserSearch{IsDriver: true}}, Result: &users},
	}
	if err := c.MultiCall(ctx, ops); err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, errors.NewNotFoundError("device "+deviceID+" not found", nil)
	}
	return &DeviceBundle{
		Device:          normalizeDevice(devices[0]),
		Exceptions:      normalizeExceptions(exceptions),
		FillUps:         normalizeFillUps(fillUps),
		FuelLevel:       latestReading(fuel),
		OdometerReading: latestReading(odometer),
		Rules:           normalizeRules(rules),
		Drivers:         normalizeDrivers(users),
	}, nil
}
