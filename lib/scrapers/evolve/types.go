package evolve

import "fmt"

// Category enumerates the monitoring panel sections. Keeping this a
// closed enum (instead of passing upstream discriminator strings
// around) means a new section has to be wired through every switch
// before it compiles.
type Category int

const (
	Business Category = iota
	Farms
	ServiceStations
	Realtors
	CarMarket
)

// Categories returns every category in the order the panel lists
// them, dispatch loops rely on this order being stable.
func Categories() []Category {
	return []Category{Business, Farms, ServiceStations, Realtors, CarMarket}
}

// Key returns the discriminator the upstream API expects in the
// request payload.
func (c Category) Key() string {
	switch c {
	case Business:
		return "business"
	case Farms:
		return "farms"
	case ServiceStations:
		return "sto"
	case Realtors:
		return "realtor"
	case CarMarket:
		return "carmarket"
	}
	panic(fmt.Sprintf("unknown category %d", int(c)))
}

func (c Category) String() string {
	return c.Key()
}

func ParseCategory(key string) (Category, error) {
	for _, c := range Categories() {
		if c.Key() == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", key)
}

// StatusOnAuction is the status text the panel uses for properties
// currently up for auction.
const StatusOnAuction = "На аукционе"

// NoOwner is the sentinel the car market rows carry instead of a
// status field when the lot has no owner (which is what "on auction"
// looks like for that section).
const NoOwner = "none"

// BusinessEntry is one row of the business section. All fields come
// over the wire as strings, Products included.
type BusinessEntry struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	StatusType string `json:"statusType"`
	Controller string `json:"controller"`
	Owner      string `json:"owner"`
	Products   string `json:"products"`
	Price      string `json:"price"`
}

// OnAuction reports whether the entry is currently up for auction.
func (b BusinessEntry) OnAuction() bool {
	return b.Status == StatusOnAuction
}

type FarmEntry struct {
	Number     string `json:"number"`
	Status     string `json:"status"`
	StatusType string `json:"statusType"`
	Owner      string `json:"owner"`
	Vice       string `json:"vice"`
	Fermers    string `json:"fermers"`
}

func (f FarmEntry) OnAuction() bool {
	return f.Status == StatusOnAuction
}

// ServiceStationEntry mirrors FarmEntry field for field, the upstream
// reuses the farm schema for service stations.
type ServiceStationEntry struct {
	Number     string `json:"number"`
	Status     string `json:"status"`
	StatusType string `json:"statusType"`
	Owner      string `json:"owner"`
	Vice       string `json:"vice"`
	Fermers    string `json:"fermers"`
}

func (s ServiceStationEntry) OnAuction() bool {
	return s.Status == StatusOnAuction
}

type RealtorEntry struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	StatusType string `json:"statusType"`
	Owner      string `json:"owner"`
	Products   string `json:"products"`
}

func (r RealtorEntry) OnAuction() bool {
	return r.Status == StatusOnAuction
}

// CarMarketLot has no status field, ownership doubles as one.
type CarMarketLot struct {
	Number   string `json:"number"`
	Owner    string `json:"owner"`
	Vice     string `json:"vice"`
	PerHour  string `json:"perhour"`
	OutPrice string `json:"outprice"`
}

func (c CarMarketLot) OnAuction() bool {
	return c.Owner == NoOwner
}
