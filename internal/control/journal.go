package control

import (
	"bufio"
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// JournalQuery selects which journal entries to fetch. Zero values mean
// unfiltered; Lines <= 0 falls back to the configured default.
type JournalQuery struct {
	Unit     string
	Priority string
	Boot     string
	Lines    int
}

// JournalEntry is one parsed journal record.
type JournalEntry struct {
	Time     time.Time `json:"time"`
	Priority string    `json:"priority"`
	Unit     string    `json:"unit"`
	Message  string    `json:"message"`
}

// BootSession is one boot the journal knows about. Index 0 is the current
// boot, negative indices count backwards.
type BootSession struct {
	Index int       `json:"index"`
	ID    string    `json:"boot_id"`
	First time.Time `json:"first_entry"`
	Last  time.Time `json:"last_entry"`
}

// Journal fetches entries from journalctl. JSON output is used because the
// short format loses field boundaries on multi-word unit names.
func (c *Controller) Journal(ctx context.Context, q JournalQuery) ([]JournalEntry, error) {
	lines := q.Lines
	if lines <= 0 {
		lines = c.journalLines
	}

	args := []string{"--output=json", "--no-pager", "-n", strconv.Itoa(lines)}
	if q.Unit != "" {
		args = append(args, "-u", q.Unit)
	}
	if q.Priority != "" {
		args = append(args, "-p", q.Priority)
	}
	if q.Boot != "" {
		args = append(args, "-b", q.Boot)
	}

	res, err := c.runner.Run(ctx, "journalctl", args...)
	if err != nil {
		return nil, err
	}
	if !res.Ok() {
		return nil, commandFailed("journalctl", res)
	}

	return parseJournalJSON(res.Stdout), nil
}

// journalRecord is the slice of journald's JSON export the viewer shows.
type journalRecord struct {
	Realtime string      `json:"__REALTIME_TIMESTAMP"`
	Priority string      `json:"PRIORITY"`
	Unit     string      `json:"_SYSTEMD_UNIT"`
	Ident    string      `json:"SYSLOG_IDENTIFIER"`
	Message  journalText `json:"MESSAGE"`
}

// journalText accepts the two encodings journald uses for MESSAGE: a plain
// string, or an array of bytes when the payload is not valid UTF-8.
type journalText string

func (t *journalText) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var nums []int
		if err := json.Unmarshal(data, &nums); err != nil {
			return err
		}
		raw := make([]byte, len(nums))
		for i, n := range nums {
			raw[i] = byte(n)
		}
		*t = journalText(raw)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = journalText(s)
	return nil
}

// parseJournalJSON parses one JSON object per line. Undecodable lines are
// skipped; journald occasionally emits records the viewer has no use for.
func parseJournalJSON(output string) []JournalEntry {
	entries := make([]JournalEntry, 0, 128)

	scanner := bufio.NewScanner(strings.NewReader(output))
	// Journal messages can be far larger than the default token limit
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec journalRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}

		entry := JournalEntry{
			Priority: priorityLabel(rec.Priority),
			Unit:     rec.Unit,
			Message:  string(rec.Message),
		}
		if entry.Unit == "" {
			entry.Unit = rec.Ident
		}
		if usec, err := strconv.ParseInt(rec.Realtime, 10, 64); err == nil {
			entry.Time = time.UnixMicro(usec)
		}

		entries = append(entries, entry)
	}

	return entries
}

// priorityLabel maps syslog numeric priorities to their names. Unknown
// values pass through untouched.
func priorityLabel(p string) string {
	switch p {
	case "0":
		return "emerg"
	case "1":
		return "alert"
	case "2":
		return "crit"
	case "3":
		return "err"
	case "4":
		return "warning"
	case "5":
		return "notice"
	case "6":
		return "info"
	case "7":
		return "debug"
	}
	return p
}

// Boots lists the boot sessions the journal spans, current boot first.
func (c *Controller) Boots(ctx context.Context) ([]BootSession, error) {
	res, err := c.runner.Run(ctx, "journalctl", "--list-boots", "--output=json", "--no-pager")
	if err != nil {
		return nil, err
	}

	var boots []BootSession
	if res.Ok() && strings.HasPrefix(strings.TrimSpace(res.Stdout), "[") {
		boots = parseBootsJSON(res.Stdout)
	} else {
		// Older journalctl has no JSON list-boots; fall back to the table
		res, err = c.runner.Run(ctx, "journalctl", "--list-boots", "--no-pager")
		if err != nil {
			return nil, err
		}
		if !res.Ok() {
			return nil, commandFailed("journalctl --list-boots", res)
		}
		boots = parseBootsTable(res.Stdout)
	}

	sort.Slice(boots, func(i, j int) bool { return boots[i].Index > boots[j].Index })
	return boots, nil
}

func parseBootsJSON(output string) []BootSession {
	var raw []struct {
		Index int    `json:"index"`
		ID    string `json:"boot_id"`
		First int64  `json:"first_entry"`
		Last  int64  `json:"last_entry"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &raw); err != nil {
		return nil
	}

	boots := make([]BootSession, 0, len(raw))
	for _, b := range raw {
		boots = append(boots, BootSession{
			Index: b.Index,
			ID:    b.ID,
			First: time.UnixMicro(b.First),
			Last:  time.UnixMicro(b.Last),
		})
	}
	return boots
}

// parseBootsTable parses the tabular --list-boots output.
// Each line: IDX BOOTID Day YYYY-MM-DD HH:MM:SS TZ Day YYYY-MM-DD HH:MM:SS TZ
func parseBootsTable(output string) []BootSession {
	const stampLayout = "Mon 2006-01-02 15:04:05 MST"

	var boots []BootSession
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		idx, err := strconv.Atoi(fields[0])
		if err != nil {
			// Header line
			continue
		}

		boot := BootSession{Index: idx, ID: fields[1]}
		if len(fields) >= 10 {
			if t, err := time.Parse(stampLayout, strings.Join(fields[2:6], " ")); err == nil {
				boot.First = t
			}
			if t, err := time.Parse(stampLayout, strings.Join(fields[6:10], " ")); err == nil {
				boot.Last = t
			}
		}
		boots = append(boots, boot)
	}

	return boots
}
