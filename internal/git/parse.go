package git

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const fieldSep = "\x1f"

// logFormat emits one record per commit: hash, parents, author name, author email,
// author time, decorations and subject, separated by unit separators.
const logFormat = "%H%x1f%P%x1f%an%x1f%ae%x1f%at%x1f%D%x1f%s"

const logFields = 7

func parseCommitRecord(record string) (Commit, error) {
	fields := strings.SplitN(record, fieldSep, logFields)
	if len(fields) != logFields {
		return Commit{}, fmt.Errorf("malformed log record %q: expected %d fields, got %d",
			truncateRecord(record), logFields, len(fields))
	}

	id := strings.TrimSpace(fields[0])
	if id == "" {
		return Commit{}, fmt.Errorf("malformed log record %q: missing hash", truncateRecord(record))
	}

	var when time.Time
	if raw := strings.TrimSpace(fields[4]); raw != "" {
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Commit{}, fmt.Errorf("parsing author time of %s: %w", id, err)
		}
		when = time.Unix(secs, 0)
	}

	return Commit{
		ID:      id,
		Parents: strings.Fields(fields[1]),
		Subject: fields[6],
		Author: Signature{
			Name:  fields[2],
			Email: fields[3],
			When:  when,
		},
		Refs: parseRefs(fields[5]),
	}, nil
}

func truncateRecord(s string) string {
	if len(s) <= 60 {
		return s
	}
	return s[:57] + "..."
}
