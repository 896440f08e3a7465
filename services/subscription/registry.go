// Package subscription keeps the in-memory interest tables that drive
// notification dispatch. Nothing here is persisted, a restart starts
// from an empty registry by design.
package subscription

import (
	"log/slog"
	"sync"

	"evowatch-backend/lib/scrapers/evolve"
)

// BusinessRecord is one per-business alert subscription.
type BusinessRecord struct {
	BusinessName string
	Hourly       bool
	LowProducts  bool
}

// AuctionEntry pairs a recipient with their subscribed categories for
// iteration.
type AuctionEntry struct {
	ChatID     int64
	Categories map[evolve.Category]struct{}
}

// BusinessEntry pairs a recipient with their business records for
// iteration.
type BusinessEntry struct {
	ChatID  int64
	Records []BusinessRecord
}

// Registry holds two independent tables: category-level auction
// subscriptions and per-business alert subscriptions. Writes come
// from bot handlers, reads from the dispatch jobs, hence the lock.
// Iteration over recipients follows first-subscribe order.
type Registry struct {
	mu sync.RWMutex

	auctionOrder []int64
	auctions     map[int64]map[evolve.Category]struct{}

	businessOrder []int64
	businesses    map[int64][]BusinessRecord
}

func NewRegistry() *Registry {
	return &Registry{
		auctions:   make(map[int64]map[evolve.Category]struct{}),
		businesses: make(map[int64][]BusinessRecord),
	}
}

// SetAuction replaces the recipient's whole category set. Subscribing
// to {farms} after {business} leaves only {farms}.
func (r *Registry) SetAuction(chatID int64, categories []evolve.Category) {
	set := make(map[evolve.Category]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, known := r.auctions[chatID]; !known {
		r.auctionOrder = append(r.auctionOrder, chatID)
	}
	r.auctions[chatID] = set
	slog.Info("auction subscription set", "chat_id", chatID, "categories", len(set))
}

// RemoveAuction deletes the recipient's auction subscription entirely.
func (r *Registry) RemoveAuction(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, known := r.auctions[chatID]; !known {
		return
	}
	delete(r.auctions, chatID)
	for i, id := range r.auctionOrder {
		if id == chatID {
			r.auctionOrder = append(r.auctionOrder[:i], r.auctionOrder[i+1:]...)
			break
		}
	}
	slog.Info("auction subscription removed", "chat_id", chatID)
}

// Auction returns a copy of the recipient's category set, nil when
// not subscribed.
func (r *Registry) Auction(chatID int64) map[evolve.Category]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, known := r.auctions[chatID]
	if !known {
		return nil
	}
	out := make(map[evolve.Category]struct{}, len(set))
	for c := range set {
		out[c] = struct{}{}
	}
	return out
}

// AuctionRecipients snapshots the auction table in first-subscribe
// order.
func (r *Registry) AuctionRecipients() []AuctionEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]AuctionEntry, 0, len(r.auctionOrder))
	for _, id := range r.auctionOrder {
		set := r.auctions[id]
		copied := make(map[evolve.Category]struct{}, len(set))
		for c := range set {
			copied[c] = struct{}{}
		}
		out = append(out, AuctionEntry{ChatID: id, Categories: copied})
	}
	return out
}

// AddBusiness registers (or replaces) the recipient's record for one
// business name. A replaced record moves to the end of the list.
func (r *Registry) AddBusiness(chatID int64, record BusinessRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, known := r.businesses[chatID]; !known {
		r.businessOrder = append(r.businessOrder, chatID)
	}

	kept := r.businesses[chatID][:0:0]
	for _, existing := range r.businesses[chatID] {
		if existing.BusinessName != record.BusinessName {
			kept = append(kept, existing)
		}
	}
	r.businesses[chatID] = append(kept, record)
	slog.Info("business subscription set", "chat_id", chatID, "business", record.BusinessName)
}

// RemoveBusiness drops the recipient's record for one business name.
// Removing the last record drops the recipient entirely, so the
// dispatch jobs never iterate over empty entries.
func (r *Registry) RemoveBusiness(chatID int64, businessName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records, known := r.businesses[chatID]
	if !known {
		return
	}

	kept := records[:0:0]
	for _, existing := range records {
		if existing.BusinessName != businessName {
			kept = append(kept, existing)
		}
	}
	if len(kept) == 0 {
		delete(r.businesses, chatID)
		for i, id := range r.businessOrder {
			if id == chatID {
				r.businessOrder = append(r.businessOrder[:i], r.businessOrder[i+1:]...)
				break
			}
		}
	} else {
		r.businesses[chatID] = kept
	}
	slog.Info("business subscription removed", "chat_id", chatID, "business", businessName)
}

// Businesses returns a copy of the recipient's records in insertion
// order.
func (r *Registry) Businesses(chatID int64) []BusinessRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := r.businesses[chatID]
	out := make([]BusinessRecord, len(records))
	copy(out, records)
	return out
}

// BusinessRecipients snapshots the business table in first-subscribe
// order.
func (r *Registry) BusinessRecipients() []BusinessEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]BusinessEntry, 0, len(r.businessOrder))
	for _, id := range r.businessOrder {
		records := r.businesses[id]
		copied := make([]BusinessRecord, len(records))
		copy(copied, records)
		out = append(out, BusinessEntry{ChatID: id, Records: copied})
	}
	return out
}
