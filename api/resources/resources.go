// FilePath: api/resources/resources.go
package resources

import (
	"context"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/itsatony/headcount/internal/hubservice"
	"github.com/itsatony/headcount/internal/monitoring"
	"github.com/itsatony/headcount/internal/refresh"
)

// Refresher runs one refresh tick on demand.
type Refresher interface {
	Tick(ctx context.Context) refresh.TickReport
}

// Resources holds all HTTP resource handlers
type Resources struct {
	Cameras   *CameraHandlers
	Schedules *ScheduleHandlers
	Occupancy *OccupancyHandlers
	System    *SystemHandlers

	decoder *schema.Decoder
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService, refresher Refresher, live http.Handler, monitor *monitoring.Service) *Resources {
	res := &Resources{
		decoder: newQueryDecoder(svc.Location(), svc.Now),
	}
	res.Cameras = &CameraHandlers{hubservice: svc}
	res.Schedules = &ScheduleHandlers{hubservice: svc, res: res}
	res.Occupancy = &OccupancyHandlers{hubservice: svc, res: res}
	res.System = &SystemHandlers{refresher: refresher, live: live, monitoring: monitor}
	return res
}
