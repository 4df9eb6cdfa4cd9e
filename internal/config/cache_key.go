package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizStatsKey returns the Redis hash holding aggregated quiz attempt counters.
func (r *CacheKeyStruct) QuizStatsKey() string {
	return "quiz:stats"
}

// QuizStatsReasonField returns the hash field counting attempts finished for a reason.
func (r *CacheKeyStruct) QuizStatsReasonField(reason string) string {
	return fmt.Sprintf("reason:%s", reason)
}

var CacheKey = NewCacheKeyStruct()
