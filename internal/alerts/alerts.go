// Package alerts records rejected interactions and notifies an admin chat.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/stock-bot/internal/bot"
)

const DailyDeniedLogKey = "stockbot:denied:daily"

// Attempt is one rejected interaction.
type Attempt struct {
	UserID int64     `json:"user_id"`
	ChatID int64     `json:"chat_id"`
	Action string    `json:"action"`
	Time   time.Time `json:"time"`
}

// EntryStore is a list store; redissvc.RedisService satisfies it.
type EntryStore interface {
	Push(ctx context.Context, key, value string) error
	Drain(ctx context.Context, key string) ([]string, error)
}

type Sender interface {
	Send(ctx context.Context, chatID int64, r bot.Reply) (int, error)
}

// Monitor implements bot.AccessObserver.
type Monitor struct {
	store     EntryStore
	sender    Sender
	adminChat int64
	limiter   *Limiter
}

// NewMonitor builds a Monitor. adminChat 0 disables notifications; entries
// are still recorded and summarized to the log.
func NewMonitor(store EntryStore, sender Sender, adminChat int64) *Monitor {
	return &Monitor{
		store:     store,
		sender:    sender,
		adminChat: adminChat,
		limiter:   NewLimiter(time.Minute, 1),
	}
}

func (m *Monitor) Denied(ctx context.Context, userID, chatID int64, action string) {
	entry := Attempt{UserID: userID, ChatID: chatID, Action: action, Time: time.Now().UTC()}
	data, _ := json.Marshal(entry)
	if err := m.store.Push(ctx, DailyDeniedLogKey, string(data)); err != nil {
		log.Printf("⚠️ failed to record denied %s from user %d: %v", action, userID, err)
	}

	if m.adminChat == 0 || !m.limiter.Allow(userID) {
		return
	}
	text := fmt.Sprintf("⚠️ ACCESS ALERT: user %d tried a %s in chat %d at %s",
		userID, action, chatID, entry.Time.Format(time.RFC3339))
	if _, err := m.sender.Send(ctx, m.adminChat, bot.Reply{Text: text}); err != nil {
		log.Printf("❌ failed to send access alert: %v", err)
	}
}

// Run sends a summary every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.SendSummary(ctx)
			m.limiter.Cleanup(interval)
		}
	}
}

// SendSummary drains the recorded attempts and reports them grouped by user.
func (m *Monitor) SendSummary(ctx context.Context) {
	entries, err := m.store.Drain(ctx, DailyDeniedLogKey)
	if err != nil {
		log.Printf("❌ failed to read denied-access log: %v", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	var attempts []Attempt
	for _, item := range entries {
		var a Attempt
		if err := json.Unmarshal([]byte(item), &a); err == nil {
			attempts = append(attempts, a)
		}
	}
	summary := Summarize(attempts)

	if m.adminChat == 0 {
		log.Println(summary)
		return
	}
	if _, err := m.sender.Send(ctx, m.adminChat, bot.Reply{Text: summary}); err != nil {
		log.Printf("❌ failed to send denied-access summary: %v", err)
		return
	}
	log.Println("📬 denied-access summary sent.")
}

// Summarize renders attempts as a plain-text report, busiest user first.
func Summarize(attempts []Attempt) string {
	byUser := make(map[int64]int)
	for _, a := range attempts {
		byUser[a.UserID]++
	}
	users := make([]int64, 0, len(byUser))
	for id := range byUser {
		users = append(users, id)
	}
	sort.Slice(users, func(i, j int) bool {
		if byUser[users[i]] != byUser[users[j]] {
			return byUser[users[i]] > byUser[users[j]]
		}
		return users[i] < users[j]
	})

	var sb strings.Builder
	sb.WriteString("📊 Denied Access Summary\n\n")
	sb.WriteString(fmt.Sprintf("Total attempts: %d\n", len(attempts)))
	for _, id := range users {
		sb.WriteString(fmt.Sprintf("👤 %d: %d\n", id, byUser[id]))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// MemoryStore is an EntryStore used when Redis is not configured.
type MemoryStore struct {
	mu    sync.Mutex
	lists map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lists: map[string][]string{}}
}

func (s *MemoryStore) Push(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[key] = append(s.lists[key], value)
	return nil
}

func (s *MemoryStore) Drain(_ context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.lists[key]
	delete(s.lists, key)
	return entries, nil
}
