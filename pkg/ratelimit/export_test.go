package ratelimit

func (s *MemoryStore) Len() int { return s.len() }

func (s *MemoryStore) Cleanup() { s.cleanup() }
