// Package notify runs the scheduled jobs that turn monitoring
// snapshots and the subscription registry into outbound messages.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"evowatch-backend/lib/cronutil"
	"evowatch-backend/lib/scrapers/evolve"
	"evowatch-backend/services/subscription"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/notify")

// lowProductsThreshold is the stock level below which a business is
// considered starved.
const lowProductsThreshold = 2000

// Sender delivers one message to one recipient. The chat-bot channel
// implementing it lives outside this engine.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string, html bool) error
}

// Source provides current category snapshots. Implemented by the
// monitor service, faked in tests.
type Source interface {
	Businesses(ctx context.Context) []evolve.BusinessEntry
	Farms(ctx context.Context) []evolve.FarmEntry
	ServiceStations(ctx context.Context) []evolve.ServiceStationEntry
	Realtors(ctx context.Context) []evolve.RealtorEntry
	CarMarket(ctx context.Context) []evolve.CarMarketLot
}

type Service struct {
	source   Source
	registry *subscription.Registry
	sender   Sender
}

func NewService(source Source, registry *subscription.Registry, sender Sender) Service {
	return Service{
		source:   source,
		registry: registry,
		sender:   sender,
	}
}

// Start registers both dispatch jobs. The minute offsets are distinct
// on purpose, the jobs would otherwise burst their fetches at the
// same instant every hour.
func (s Service) Start(ctx context.Context, sched cronutil.Scheduler) error {
	err := sched.Cron("3 * * * *", func() {
		s.CheckAuctions(ctx)
	})
	if err != nil {
		return fmt.Errorf("register auction job: %w", err)
	}
	err = sched.Cron("5 * * * *", func() {
		s.CheckBusinesses(ctx)
	})
	if err != nil {
		return fmt.Errorf("register business job: %w", err)
	}
	return nil
}

// auctionLines collects one line per entity currently up for auction
// in the given category.
func (s Service) auctionLines(ctx context.Context, category evolve.Category) []string {
	var lines []string
	switch category {
	case evolve.Business:
		for _, b := range s.source.Businesses(ctx) {
			if b.OnAuction() {
				lines = append(lines, fmt.Sprintf("🏢 %s выставлен на аукцион", b.Name))
			}
		}
	case evolve.Farms:
		for _, f := range s.source.Farms(ctx) {
			if f.OnAuction() {
				lines = append(lines, fmt.Sprintf("🌾 Ферма %s выставлена на аукцион", f.Number))
			}
		}
	case evolve.ServiceStations:
		for _, st := range s.source.ServiceStations(ctx) {
			if st.OnAuction() {
				lines = append(lines, fmt.Sprintf("🔧 %s выставлена на аукцион", st.Number))
			}
		}
	case evolve.Realtors:
		for _, r := range s.source.Realtors(ctx) {
			if r.OnAuction() {
				lines = append(lines, fmt.Sprintf("🏠 %s выставлена на аукцион", r.Name))
			}
		}
	case evolve.CarMarket:
		for _, lot := range s.source.CarMarket(ctx) {
			if lot.OnAuction() {
				lines = append(lines, "🚘 Авторынок выставлен на аукцион")
			}
		}
	}
	return lines
}

// CheckAuctions is the auction job body: one message per recipient
// covering all their subscribed categories, nothing when no entity is
// up for auction.
func (s Service) CheckAuctions(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "notify:CheckAuctions")
	defer span.End()

	for _, entry := range s.registry.AuctionRecipients() {
		var lines []string
		for _, category := range evolve.Categories() {
			if _, subscribed := entry.Categories[category]; !subscribed {
				continue
			}
			lines = append(lines, s.auctionLines(ctx, category)...)
		}
		if len(lines) == 0 {
			continue
		}

		for _, chunk := range SplitMessages(lines) {
			message := "🚨 <b>Внимание!</b>\n\nНа аукционе:\n\n" + chunk
			err := s.sender.Send(ctx, entry.ChatID, message, true)
			if err != nil {
				slog.ErrorContext(ctx, "send auction alert", "chat_id", entry.ChatID, "err", err)
				break
			}
		}
		slog.InfoContext(ctx, "auction alert processed", "chat_id", entry.ChatID, "entries", len(lines))
	}
}

// lowOnProducts parses the stringly-typed product count. Unparseable
// counts never read as low, the upstream occasionally puts dashes in
// that column.
func lowOnProducts(b evolve.BusinessEntry) bool {
	products, err := strconv.Atoi(b.Products)
	return err == nil && products < lowProductsThreshold
}

// CheckBusinesses is the business job body. The snapshot is fetched
// once per tick and shared across every recipient. For each record, a
// low-products alert supersedes the hourly report, the two are never
// both sent in one tick.
func (s Service) CheckBusinesses(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "notify:CheckBusinesses")
	defer span.End()

	businesses := s.source.Businesses(ctx)
	if len(businesses) == 0 {
		slog.WarnContext(ctx, "no business snapshot available, skipping tick")
		return
	}

	byName := make(map[string]evolve.BusinessEntry, len(businesses))
	for _, b := range businesses {
		byName[b.Name] = b
	}

	for _, entry := range s.registry.BusinessRecipients() {
		for _, record := range entry.Records {
			business, found := byName[record.BusinessName]
			if !found {
				// businesses get renamed and demolished, a dangling
				// subscription is not an error
				continue
			}

			if record.LowProducts && lowOnProducts(business) {
				s.sendBusinessReport(ctx, entry.ChatID, business, "⚠️ Низкое количество продуктов!", true)
				continue
			}
			if record.Hourly {
				s.sendBusinessReport(ctx, entry.ChatID, business, "🕐 Ежечасный отчет о бизнесе", false)
			}
		}
	}
}

func (s Service) sendBusinessReport(ctx context.Context, chatID int64, business evolve.BusinessEntry, header string, lowAlert bool) {
	message := header + "\n\n" + FormatBusiness(business)
	if lowAlert {
		message += fmt.Sprintf("\n❗️<b>Внимание! В бизнесе меньше %d продуктов. Необходимо их завести!</b>", lowProductsThreshold)
	}

	err := s.sender.Send(ctx, chatID, message, true)
	if err != nil {
		slog.ErrorContext(ctx, "send business report", "chat_id", chatID, "business", business.Name, "err", err)
	}
}
