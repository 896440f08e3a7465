package notify

import (
	"strings"
	"testing"

	"evowatch-backend/lib/scrapers/evolve"

	"github.com/stretchr/testify/require"
)

func TestFormatBusiness(t *testing.T) {
	text := FormatBusiness(evolve.BusinessEntry{
		Name:       "Alpha",
		Status:     "Активен",
		Controller: "Семья X",
		Owner:      "Bob",
		Products:   "4200",
		Price:      "100/200",
	})

	require.Contains(t, text, "🏢 <b>Название:</b> Alpha")
	require.Contains(t, text, "🟢 <b>Статус:</b> Активен")
	require.Contains(t, text, "📦 <b>Продукты:</b> 4200")
}

func TestFormatFarmMemberLists(t *testing.T) {
	text := FormatFarm(evolve.FarmEntry{
		Number:  "4",
		Status:  evolve.StatusOnAuction,
		Owner:   "Bob",
		Vice:    "None",
		Fermers: "Alice<br/>None<br/>Carol",
	})

	require.Contains(t, text, "🌾 <b>Название:</b> Ферма 4")
	require.Contains(t, text, "🔴 <b>Статус:</b>")
	require.Contains(t, text, "👥 <b>Заместители:</b>\n  Нет")
	require.Contains(t, text, "  • Alice\n  • Carol")
	require.NotContains(t, text, "None")
}

func TestFormatCarMarket(t *testing.T) {
	text := FormatCarMarket(evolve.CarMarketLot{
		Owner:    "Bob",
		Vice:     "Alice",
		PerHour:  "500",
		OutPrice: "10000",
	})

	require.Contains(t, text, "🚘 <b>Название:</b> Авторынок")
	require.Contains(t, text, "💰 <b>Цена аренды в час:</b> 500")
}

func TestSplitMessagesRespectsLimit(t *testing.T) {
	block := strings.Repeat("x", 1500)
	messages := SplitMessages([]string{block, block, block})

	require.Len(t, messages, 2)
	for _, m := range messages {
		require.LessOrEqual(t, len(m), maxMessageLength)
	}
	require.Contains(t, messages[0], block)
}

func TestSplitMessagesEmpty(t *testing.T) {
	require.Empty(t, SplitMessages(nil))
}
