// Package monitor layers hour-aligned caching over the user panel
// client, one snapshot slot per category.
package monitor

import (
	"context"
	"log/slog"

	"evowatch-backend/lib/cronutil"
	"evowatch-backend/lib/scrapers/evolve"
)

type Service struct {
	businesses      *hourCache[evolve.BusinessEntry]
	farms           *hourCache[evolve.FarmEntry]
	serviceStations *hourCache[evolve.ServiceStationEntry]
	realtors        *hourCache[evolve.RealtorEntry]
	carMarket       *hourCache[evolve.CarMarketLot]
}

func NewService(client *evolve.Client) Service {
	return Service{
		businesses:      newHourCache(evolve.Business.Key(), client.Businesses),
		farms:           newHourCache(evolve.Farms.Key(), client.Farms),
		serviceStations: newHourCache(evolve.ServiceStations.Key(), client.ServiceStations),
		realtors:        newHourCache(evolve.Realtors.Key(), client.Realtors),
		carMarket:       newHourCache(evolve.CarMarket.Key(), client.CarMarket),
	}
}

func (s Service) Businesses(ctx context.Context) []evolve.BusinessEntry {
	return s.businesses.Get(ctx)
}

func (s Service) Farms(ctx context.Context) []evolve.FarmEntry {
	return s.farms.Get(ctx)
}

func (s Service) ServiceStations(ctx context.Context) []evolve.ServiceStationEntry {
	return s.serviceStations.Get(ctx)
}

func (s Service) Realtors(ctx context.Context) []evolve.RealtorEntry {
	return s.realtors.Get(ctx)
}

func (s Service) CarMarket(ctx context.Context) []evolve.CarMarketLot {
	return s.carMarket.Get(ctx)
}

// RefreshAll touches every cache so the dispatch jobs later in the
// hour mostly hit warm snapshots.
func (s Service) RefreshAll(ctx context.Context) {
	slog.InfoContext(ctx, "refreshing monitoring snapshots")
	s.Businesses(ctx)
	s.Farms(ctx)
	s.ServiceStations(ctx)
	s.Realtors(ctx)
	s.CarMarket(ctx)
}

// Start registers the warm-up refresh a couple of minutes past the
// hour, before the notification jobs fire.
func (s Service) Start(ctx context.Context, sched cronutil.Scheduler) error {
	return sched.Cron("2 * * * *", func() {
		s.RefreshAll(ctx)
	})
}
