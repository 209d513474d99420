package service

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"staffchat/internal/logger"
	"staffchat/internal/model"

	"github.com/google/uuid"
)

var (
	conversationIDRe = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)
	userIDRe         = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

const DefaultUser = "default"

// ConversationStore keeps one append-only JSONL file per conversation under
// <root>/<user>/<cid>.jsonl. Appends and deletes serialize on a per-file
// mutex; reads take no lock and skip lines that fail to parse, so a torn
// trailing write is dropped rather than corrupting the read.
type ConversationStore struct {
	root  string
	locks sync.Map // file path -> *sync.Mutex
}

func NewConversationStore(dataDir string) (*ConversationStore, error) {
	root := filepath.Join(dataDir, "conversations")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create conversations dir: %w", err)
	}
	return &ConversationStore{root: root}, nil
}

func (s *ConversationStore) lock(path string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(path, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func ValidateUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = DefaultUser
	}
	if !userIDRe.MatchString(userID) {
		return "", ErrInvalidUser
	}
	return userID, nil
}

func (s *ConversationStore) userDir(userID string) (string, error) {
	uid, err := ValidateUser(userID)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(s.root, uid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create user dir: %w", err)
	}
	return dir, nil
}

func (s *ConversationStore) convPath(userID, cid string) (string, error) {
	if !conversationIDRe.MatchString(cid) {
		return "", ErrInvalidID
	}
	dir, err := s.userDir(userID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, strings.ToLower(cid)+".jsonl"), nil
}

// Create starts an empty conversation and returns its 32-hex-char id.
func (s *ConversationStore) Create(userID string) (string, error) {
	cid := strings.ReplaceAll(uuid.New().String(), "-", "")
	path, err := s.convPath(userID, cid)
	if err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create conversation: %w", err)
	}
	f.Close()
	logger.Info("conversation created", "user", userID, "id", cid)
	return cid, nil
}

func (s *ConversationStore) Delete(userID, cid string) error {
	path, err := s.convPath(userID, cid)
	if err != nil {
		return err
	}
	mu := s.lock(path)
	mu.Lock()
	defer mu.Unlock()
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete conversation: %w", err)
	}
	logger.Info("conversation deleted", "user", userID, "id", cid)
	return nil
}

// List returns summaries most-recently-modified first, bounded by limit.
func (s *ConversationStore) List(userID string, limit int) ([]model.ConversationSummary, error) {
	dir, err := s.userDir(userID)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	type candidate struct {
		path  string
		mtime time.Time
	}
	var files []candidate
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, candidate{filepath.Join(dir, e.Name()), info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].mtime.After(files[j].mtime) })
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	out := make([]model.ConversationSummary, 0, len(files))
	for _, f := range files {
		sum, err := s.summarize(f.path)
		if err != nil {
			continue
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *ConversationStore) Get(userID, cid string) (model.ConversationSummary, error) {
	path, err := s.convPath(userID, cid)
	if err != nil {
		return model.ConversationSummary{}, err
	}
	return s.summarize(path)
}

func (s *ConversationStore) summarize(path string) (model.ConversationSummary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.ConversationSummary{}, ErrNotFound
	}
	msgs, err := s.readValid(path)
	if err != nil {
		return model.ConversationSummary{}, err
	}
	return model.ConversationSummary{
		ID:     strings.TrimSuffix(filepath.Base(path), ".jsonl"),
		LastAt: info.ModTime().UTC().Format(time.RFC3339),
		Count:  len(msgs),
	}, nil
}

// Append validates and appends one message under the conversation's lock.
// The timestamp is server-assigned.
func (s *ConversationStore) Append(userID, cid, role, content string) (model.Message, error) {
	path, err := s.convPath(userID, cid)
	if err != nil {
		return model.Message{}, err
	}
	if role != "system" && role != "user" && role != "assistant" {
		return model.Message{}, ErrInvalidRole
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Message{}, ErrEmptyContent
	}
	if _, err := os.Stat(path); err != nil {
		return model.Message{}, ErrNotFound
	}

	msg := model.Message{Role: role, Content: content, TS: time.Now().UTC().Format(time.RFC3339)}
	line, err := json.Marshal(msg)
	if err != nil {
		return model.Message{}, fmt.Errorf("encode message: %w", err)
	}

	mu := s.lock(path)
	mu.Lock()
	defer mu.Unlock()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return model.Message{}, fmt.Errorf("open conversation: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return model.Message{}, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

// Messages returns a window over the oldest-to-newest message list: offset
// counts back from the end, limit bounds the window size.
func (s *ConversationStore) Messages(userID, cid string, limit, offset int) ([]model.Message, error) {
	path, err := s.convPath(userID, cid)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, ErrNotFound
	}
	msgs, err := s.readValid(path)
	if err != nil {
		return nil, err
	}
	n := len(msgs)
	start := max(0, n-(offset+limit))
	end := max(0, n-offset)
	if start > end {
		return []model.Message{}, nil
	}
	return msgs[start:end], nil
}

// readValid keeps only fully-written, parseable lines with a known role.
func (s *ConversationStore) readValid(path string) ([]model.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Message{}, nil
		}
		return nil, fmt.Errorf("open conversation: %w", err)
	}
	defer f.Close()

	msgs := []model.Message{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var m model.Message
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			continue
		}
		if (m.Role == "system" || m.Role == "user" || m.Role == "assistant") && m.Content != "" && m.TS != "" {
			msgs = append(msgs, m)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read conversation: %w", err)
	}
	return msgs, nil
}
