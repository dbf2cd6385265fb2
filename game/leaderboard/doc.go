// Package leaderboard maintains the durable top scores per difficulty.
//
// Each difficulty keeps at most MaxEntries entries sorted by score,
// highest first. A score qualifies when the list has room or the score
// strictly beats the lowest entry. Ties keep insertion order, so a new
// entry ranks below existing entries with the same score.
//
// The whole leaderboard is stored as one JSON document under Key:
//
//	{"easy": [...], "medium": [...], "hard": [...]}
//
// Manager serializes every read-modify-write so a qualification check and
// the insertion it allows cannot interleave with another submission.
package leaderboard
