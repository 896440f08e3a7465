package notify

import (
	"fmt"
	"strings"

	"evowatch-backend/lib/scrapers/evolve"
)

// Telegram rejects messages past 4096 characters, stay under it with
// some headroom.
const maxMessageLength = 4000

func statusEmoji(status string) string {
	switch status {
	case "Активен":
		return "🟢"
	case evolve.StatusOnAuction:
		return "🔴"
	default:
		return "⚪"
	}
}

// memberList renders a "<br/>"-separated name list as indented bullet
// lines, dropping the upstream's "None" placeholders.
func memberList(raw string) string {
	var lines []string
	for _, name := range strings.Split(raw, "<br/>") {
		if name == "" || name == "None" {
			continue
		}
		lines = append(lines, "  • "+name)
	}
	if len(lines) == 0 {
		return "  Нет"
	}
	return strings.Join(lines, "\n")
}

func FormatBusiness(b evolve.BusinessEntry) string {
	return fmt.Sprintf(
		"🏢 <b>Название:</b> %s\n"+
			"%s <b>Статус:</b> %s\n"+
			"💀 <b>Контроль:</b> %s\n"+
			"👤 <b>Владелец:</b> %s\n"+
			"📦 <b>Продукты:</b> %s\n"+
			"💰 <b>Цены:</b> %s\n",
		b.Name, statusEmoji(b.Status), b.Status, b.Controller, b.Owner, b.Products, b.Price,
	)
}

func FormatFarm(f evolve.FarmEntry) string {
	return fmt.Sprintf(
		"🌾 <b>Название:</b> Ферма %s\n"+
			"%s <b>Статус:</b> %s\n"+
			"👤 <b>Владелец:</b> %s\n"+
			"👥 <b>Заместители:</b>\n%s\n"+
			"🧑‍🌾 <b>Фермеры:</b>\n%s\n",
		f.Number, statusEmoji(f.Status), f.Status, f.Owner, memberList(f.Vice), memberList(f.Fermers),
	)
}

func FormatServiceStation(s evolve.ServiceStationEntry) string {
	return fmt.Sprintf(
		"🔧 <b>Название:</b> %s\n"+
			"%s <b>Статус:</b> %s\n"+
			"👤 <b>Владелец:</b> %s\n"+
			"👥 <b>Заместители:</b>\n%s\n"+
			"👨‍🔧 <b>Механики:</b>\n%s\n",
		s.Number, statusEmoji(s.Status), s.Status, s.Owner, memberList(s.Vice), memberList(s.Fermers),
	)
}

func FormatRealtor(r evolve.RealtorEntry) string {
	return fmt.Sprintf(
		"🏠 <b>Название:</b> %s\n"+
			"%s <b>Статус:</b> %s\n"+
			"👤 <b>Владелец:</b> %s\n"+
			"📦 <b>Продукты:</b> %s\n",
		r.Name, statusEmoji(r.Status), r.Status, r.Owner, r.Products,
	)
}

func FormatCarMarket(c evolve.CarMarketLot) string {
	return fmt.Sprintf(
		"🚘 <b>Название:</b> Авторынок\n"+
			"👤 <b>Владелец:</b> %s\n"+
			"👥 <b>Заместители:</b>\n%s\n"+
			"💰 <b>Цена аренды в час:</b> %s\n"+
			"💸 <b>Цена за выезд:</b> %s\n",
		c.Owner, memberList(c.Vice), c.PerHour, c.OutPrice,
	)
}

// SplitMessages packs formatted blocks into as few messages as fit
// under the length limit, preserving block order.
func SplitMessages(blocks []string) []string {
	var messages []string
	var current strings.Builder

	for _, block := range blocks {
		if current.Len() > 0 && current.Len()+len(block)+1 > maxMessageLength {
			messages = append(messages, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(block)
		current.WriteString("\n")
	}
	if current.Len() > 0 {
		messages = append(messages, strings.TrimSpace(current.String()))
	}

	return messages
}
