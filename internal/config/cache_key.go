package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's login session (JTI).
func (r *CacheKeyStruct) UserSessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// UserCartKey returns the hash key holding a user's cart items.
func (r *CacheKeyStruct) UserCartKey(userID int) string {
	return fmt.Sprintf("user:%d:cart", userID)
}

// UserActiveAttemptKey returns the key holding a user's in-progress
// interview attempt id.
func (r *CacheKeyStruct) UserActiveAttemptKey(userID int) string {
	return fmt.Sprintf("user:%d:active_attempt", userID)
}

// AttemptAnswersKey returns the hash key for an attempt's autosaved answers.
func (r *CacheKeyStruct) AttemptAnswersKey(attemptID string) string {
	return fmt.Sprintf("attempt:%s:answers", attemptID)
}

// AttemptStartKey returns the key for an attempt's start timestamp.
func (r *CacheKeyStruct) AttemptStartKey(attemptID string) string {
	return fmt.Sprintf("attempt:%s:started_at", attemptID)
}

// InterviewMonitorChannel returns the Redis PubSub channel carrying live
// proctoring events for the admin monitor stream.
func (r *CacheKeyStruct) InterviewMonitorChannel() string {
	return "interview:monitor"
}

// QuestionBankKey returns the cache key for a mode's question payload.
func (r *CacheKeyStruct) QuestionBankKey(mode string) string {
	return fmt.Sprintf("qbank:%s:payload", mode)
}

var CacheKey = NewCacheKeyStruct()
