// Package telegram is the companion bot: a thin chat frontend over the
// shopping-list engine and the AI helpers.
package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pantrypilot/internal/config"
	"pantrypilot/internal/planner"
	"pantrypilot/internal/recipe"
	"pantrypilot/internal/shopping"
)

// RecipeClipper imports a recipe from a web page. Optional; URL messages
// are rejected when it is nil.
type RecipeClipper interface {
	ClipURL(ctx context.Context, url, userID string) (*recipe.Recipe, error)
}

// PlanGenerator suggests a weekly meal plan. Optional like RecipeClipper.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, userID, userRequest string) (*planner.MealPlan, error)
}

// Bot wraps the Telegram API and the shopping service.
type Bot struct {
	api      *tgbotapi.BotAPI
	shopping *shopping.Service
	clipper  RecipeClipper
	planner  PlanGenerator
	cfg      *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, shoppingSvc *shopping.Service,
	clip RecipeClipper, plan PlanGenerator) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:      bot,
		shopping: shoppingSvc,
		clipper:  clip,
		planner:  plan,
		cfg:      cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}
	if !isAllowed {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)",
			update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	userID := fmt.Sprintf("%d", msg.From.ID)
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/lists":
		b.handleLists(ctx, userID, msg.Chat.ID)
	case text == "/show" || strings.HasPrefix(text, "/show "):
		b.handleShow(ctx, userID, msg.Chat.ID, strings.TrimSpace(strings.TrimPrefix(text, "/show")))
	case strings.HasPrefix(text, "/check "):
		b.handleCheck(ctx, userID, msg.Chat.ID, strings.TrimSpace(strings.TrimPrefix(text, "/check")))
	case strings.HasPrefix(text, "/add "):
		b.handleAdd(ctx, userID, msg.Chat.ID, strings.TrimSpace(strings.TrimPrefix(text, "/add")))
	case strings.HasPrefix(text, "http://"), strings.HasPrefix(text, "https://"):
		b.handleClip(ctx, userID, msg.Chat.ID, text)
	default:
		b.handlePlan(ctx, userID, msg.Chat.ID, text)
	}
}

func (b *Bot) handleLists(ctx context.Context, userID string, chatID int64) {
	lists, err := b.shopping.Lists(ctx, userID)
	if err != nil {
		b.sendError(chatID, "fetching lists", err)
		return
	}
	b.sendMarkdown(chatID, formatLists(lists))
}

// handleShow renders a list grouped by aisle with numbered entries the
// user can feed back into /check.
func (b *Bot) handleShow(ctx context.Context, userID string, chatID int64, arg string) {
	list, err := b.resolveList(ctx, userID, arg)
	if err != nil {
		b.sendError(chatID, "finding list", err)
		return
	}
	groups, err := b.shopping.GroupedItems(ctx, userID, list.ID, shopping.GroupModeAisle)
	if err != nil {
		b.sendError(chatID, "fetching items", err)
		return
	}
	b.sendMarkdown(chatID, formatGroupedList(list.Name, groups))
}

// handleCheck toggles the n-th entry of a list's aisle view. Entry numbers
// match the last /show output because both derive from the same
// deterministic ordering. The list name is optional; the default list is
// used without one.
func (b *Bot) handleCheck(ctx context.Context, userID string, chatID int64, arg string) {
	listArg, numArg := splitCheckArgs(arg)
	n, err := strconv.Atoi(numArg)
	if err != nil || n <= 0 {
		b.sendMarkdown(chatID, "Usage: `/check [list] <entry number from /show>`")
		return
	}
	list, err := b.resolveList(ctx, userID, listArg)
	if err != nil {
		b.sendError(chatID, "finding list", err)
		return
	}
	groups, err := b.shopping.GroupedItems(ctx, userID, list.ID, shopping.GroupModeAisle)
	if err != nil {
		b.sendError(chatID, "fetching items", err)
		return
	}
	entry, ok := entryAt(groups, n)
	if !ok {
		b.sendMarkdown(chatID, fmt.Sprintf("No entry *%d* on *%s*.", n, list.Name))
		return
	}
	results, err := b.shopping.ToggleChecked(ctx, userID, entry.ConsolidatedIDs, !entry.IsChecked)
	if err != nil {
		b.sendError(chatID, "updating item", err)
		return
	}
	if failed := shopping.FailedIDs(results); len(failed) > 0 {
		b.sendMarkdown(chatID, fmt.Sprintf("Partially updated *%s*: %d of %d rows failed.",
			displayName(entry), len(failed), len(entry.ConsolidatedIDs)))
		return
	}
	state := "checked"
	if entry.IsChecked {
		state = "unchecked"
	}
	b.sendMarkdown(chatID, fmt.Sprintf("☑️ *%s* %s.", displayName(entry), state))
}

func (b *Bot) handleAdd(ctx context.Context, userID string, chatID int64, text string) {
	if text == "" {
		b.sendMarkdown(chatID, "Usage: `/add <item name>`")
		return
	}
	list, err := b.resolveList(ctx, userID, "")
	if err != nil {
		b.sendError(chatID, "finding list", err)
		return
	}
	item := &shopping.Item{ListID: list.ID, Name: &text}
	if _, err := b.shopping.AddItem(ctx, userID, item); err != nil {
		b.sendError(chatID, "adding item", err)
		return
	}
	b.sendMarkdown(chatID, fmt.Sprintf("➕ Added *%s* to *%s*.", text, list.Name))
}

func (b *Bot) handleClip(ctx context.Context, userID string, chatID int64, url string) {
	if b.clipper == nil {
		b.sendMarkdown(chatID, "Recipe import is not configured.")
		return
	}
	sent, err := b.api.Send(markdownMessage(chatID, "✂️ *Clipping recipe...*"))
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}
	rec, err := b.clipper.ClipURL(ctx, url, userID)
	var finalText string
	if err != nil {
		log.Printf("Error clipping recipe: %v", err)
		finalText = fmt.Sprintf("❌ *Error clipping recipe:*\n```\n%v\n```", safeMarkdown(err.Error()))
	} else {
		finalText = fmt.Sprintf("✅ *Recipe Saved!*\n\n*Title:* %s\n*Ingredients:* %d", rec.Name, len(rec.Ingredients))
	}
	edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) handlePlan(ctx context.Context, userID string, chatID int64, request string) {
	if b.planner == nil {
		b.sendMarkdown(chatID, "Meal planning is not configured.\nTry `/lists`, `/show`, `/check <n>` or `/add <item>`.")
		return
	}
	sent, err := b.api.Send(markdownMessage(chatID, "🧑‍🍳 *Thinking...* \n(Generating your plan)"))
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}
	plan, err := b.planner.GeneratePlan(ctx, userID, request)
	var finalText string
	if err != nil {
		log.Printf("Error generating plan: %v", err)
		finalText = fmt.Sprintf("❌ *Error generating plan:*\n```\n%v\n```", safeMarkdown(err.Error()))
	} else {
		finalText = formatPlanMarkdown(plan)
	}
	edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

// resolveList picks the list named by arg, falling back to the user's
// default list and then to the first list.
func (b *Bot) resolveList(ctx context.Context, userID, arg string) (*shopping.ShoppingList, error) {
	lists, err := b.shopping.Lists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return nil, fmt.Errorf("you have no shopping lists yet")
	}
	if arg != "" {
		for i := range lists {
			if strings.EqualFold(lists[i].Name, arg) {
				return &lists[i], nil
			}
		}
		return nil, fmt.Errorf("no list named %q", arg)
	}
	for i := range lists {
		if lists[i].IsDefault {
			return &lists[i], nil
		}
	}
	return &lists[0], nil
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	if _, err := b.api.Send(markdownMessage(chatID, text)); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (b *Bot) sendError(chatID int64, action string, err error) {
	log.Printf("Error %s: %v", action, err)
	b.sendMarkdown(chatID, fmt.Sprintf("❌ *Error %s:*\n```\n%v\n```", action, safeMarkdown(err.Error())))
}

func markdownMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	return msg
}

func safeMarkdown(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}

// splitCheckArgs splits "/check [list] <n>" arguments: the last token is
// the entry number, anything before it names the list.
func splitCheckArgs(arg string) (listArg, numArg string) {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return "", ""
	}
	numArg = fields[len(fields)-1]
	listArg = strings.Join(fields[:len(fields)-1], " ")
	return listArg, numArg
}

// entryAt returns the n-th (1-based) entry of the grouped view, counting
// across groups in display order.
func entryAt(groups []shopping.Group, n int) (*shopping.ConsolidatedItem, bool) {
	i := 0
	for gi := range groups {
		for ii := range groups[gi].Items {
			i++
			if i == n {
				return &groups[gi].Items[ii], true
			}
		}
	}
	return nil, false
}

func displayName(it *shopping.ConsolidatedItem) string {
	switch {
	case it.Food != nil:
		return it.Food.Name
	case it.Name != nil:
		return *it.Name
	default:
		return fmt.Sprintf("item %d", it.ID)
	}
}

func formatLists(lists []shopping.ShoppingList) string {
	if len(lists) == 0 {
		return "You have no shopping lists yet."
	}
	var sb strings.Builder
	sb.WriteString("🗒 *Your Shopping Lists*\n\n")
	for _, l := range lists {
		sb.WriteString(fmt.Sprintf("• %s", l.Name))
		if l.IsDefault {
			sb.WriteString(" _(default)_")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatGroupedList(listName string, groups []shopping.Group) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *%s*\n", listName))

	n := 0
	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("\n*%s*\n", g.Name))
		for i := range g.Items {
			it := &g.Items[i]
			n++
			box := "☐"
			if it.IsChecked {
				box = "☑"
			}
			sb.WriteString(fmt.Sprintf("%d. %s %s", n, box, displayName(it)))
			if it.NumberOfServings != nil && *it.NumberOfServings > 0 {
				sb.WriteString(fmt.Sprintf(" ×%g", *it.NumberOfServings))
			}
			if it.Notes != nil && *it.Notes != "" {
				sb.WriteString(fmt.Sprintf(" _(%s)_", *it.Notes))
			}
			sb.WriteString("\n")
		}
	}
	if n == 0 {
		sb.WriteString("\n_The list is empty._")
	}
	return sb.String()
}

func formatPlanMarkdown(plan *planner.MealPlan) string {
	var sb strings.Builder
	sb.WriteString("📅 *Weekly Meal Plan*\n\n")
	for _, dp := range plan.Plan {
		sb.WriteString(fmt.Sprintf("*%s*: %s\n", dp.Day, dp.RecipeTitle))
		if dp.Note != "" {
			sb.WriteString(fmt.Sprintf("_%s_\n", dp.Note))
		}
		sb.WriteString("\n")
	}
	if plan.TotalPrep != "" {
		sb.WriteString(fmt.Sprintf("⏱ *Total Prep:* %s\n", plan.TotalPrep))
	}
	return sb.String()
}
