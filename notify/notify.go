package notify

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Notifier is the transient-notification sink (the toast analog). Controllers
// emit one success or error notification per mutation.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier writes notifications to the structured log. It is the default
// sink outside a UI embedding.
type LogNotifier struct {
	log *logrus.Entry
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logrus.WithField("component", "notify")}
}

func (n *LogNotifier) Success(message string) { n.log.Info(message) }
func (n *LogNotifier) Error(message string)   { n.log.Warn(message) }

// Capture records notifications for assertions in tests.
type Capture struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func NewCapture() *Capture { return &Capture{} }

func (c *Capture) Success(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successes = append(c.successes, message)
}

func (c *Capture) Error(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, message)
}

func (c *Capture) Successes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.successes...)
}

func (c *Capture) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.errors...)
}
