package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxTopicLen = 65535

// Topic is an MQTT topic name the hub publishes to. It never contains
// wildcards.
type Topic string

// TopicFilter is an MQTT subscription filter. It may contain the single-level
// (+) and multi-level (#) wildcards.
type TopicFilter string

func checkTopicText(s string) error {
	switch {
	case s == "":
		return fmt.Errorf("%w: empty", ErrInvalidTopicFormat)
	case len(s) > maxTopicLen:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidTopicFormat, maxTopicLen)
	case !utf8.ValidString(s):
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidTopicFormat)
	case strings.ContainsRune(s, 0):
		return fmt.Errorf("%w: contains NUL", ErrInvalidTopicFormat)
	}
	return nil
}

func ParseTopic(s string) (Topic, error) {
	if err := checkTopicText(s); err != nil {
		return "", err
	}
	if i := strings.IndexAny(s, "+#"); i >= 0 {
		return "", fmt.Errorf("%w: wildcard %q not allowed in a publish topic", ErrInvalidTopicFormat, s[i])
	}
	return Topic(s), nil
}

func ParseTopicFilter(s string) (TopicFilter, error) {
	if err := checkTopicText(s); err != nil {
		return "", err
	}
	levels := strings.Split(s, "/")
	for i, level := range levels {
		if strings.Contains(level, "#") && (level != "#" || i != len(levels)-1) {
			return "", fmt.Errorf("%w: '#' must be the whole last level", ErrInvalidTopicFormat)
		}
		if strings.Contains(level, "+") && level != "+" {
			return "", fmt.Errorf("%w: '+' must occupy a whole level", ErrInvalidTopicFormat)
		}
	}
	return TopicFilter(s), nil
}

func (t Topic) String() string {
	return string(t)
}

func (t Topic) Levels() []string {
	return strings.Split(string(t), "/")
}

func (f TopicFilter) String() string {
	return string(f)
}

func (f TopicFilter) HasWildcard() bool {
	return strings.ContainsAny(string(f), "+#")
}

// Matches reports whether a message published on t would be delivered to a
// subscription on f. Topics starting with '$' are not matched by a leading
// wildcard.
func (f TopicFilter) Matches(t Topic) bool {
	if f == "" || t == "" {
		return false
	}
	fl := strings.Split(string(f), "/")
	tl := t.Levels()
	if strings.HasPrefix(string(t), "$") && (fl[0] == "+" || fl[0] == "#") {
		return false
	}
	for i, level := range fl {
		if level == "#" {
			return true
		}
		if i >= len(tl) {
			return false
		}
		if level != "+" && level != tl[i] {
			return false
		}
	}
	return len(fl) == len(tl)
}
