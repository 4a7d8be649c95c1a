// Package logging configures logrus for batnotify.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// TopicKey is the field that tags a log entry with its component.
const TopicKey = "topic"

// Topics known to batnotify.
const (
	TopicBattery = "battery"
	TopicNotify  = "notify"
	TopicSleep   = "sleep"
)

// topicFormatter wraps a logrus.Formatter and filters entries by their
// "topic" field. Entries without a topic always pass through (startup
// messages, errors). Entries with a topic only pass if that topic is enabled.
// Warnings and errors pass regardless of topic.
type topicFormatter struct {
	inner  logrus.Formatter
	topics map[string]bool
}

func (f *topicFormatter) Format(e *logrus.Entry) ([]byte, error) {
	if !f.enabled(e) {
		return nil, nil
	}
	return f.inner.Format(e)
}

func (f *topicFormatter) enabled(e *logrus.Entry) bool {
	if f.topics["all"] || e.Level <= logrus.WarnLevel {
		return true
	}
	v, ok := e.Data[TopicKey]
	if !ok {
		return true
	}
	return f.topics[fmt.Sprint(v)]
}

// ParseTopics turns a comma-separated topic list into a set. verbose enables
// every topic.
func ParseTopics(list string, verbose bool) map[string]bool {
	topics := make(map[string]bool)
	if verbose {
		topics["all"] = true
	}
	for _, t := range strings.Split(list, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics[t] = true
		}
	}
	return topics
}

// New returns a logger writing to w. Debug output is on when any topic is
// enabled, since topic entries are mostly debug level.
func New(w io.Writer, topics map[string]bool) *logrus.Logger {
	text := &logrus.TextFormatter{}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		text = &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		}
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&topicFormatter{inner: text, topics: topics})
	log.SetLevel(logrus.InfoLevel)
	if len(topics) > 0 {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// WithTopic tags a logger's entries with topic.
func WithTopic(log logrus.FieldLogger, topic string) *logrus.Entry {
	return log.WithField(TopicKey, topic)
}
