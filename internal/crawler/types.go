package crawler

// Stats tracks what a run touched and what it skipped. Counters are plain
// ints; the engine is single-threaded.
type Stats struct {
	UsernamesTargeted int `json:"usernames_targeted"`
	UsersProcessed    int `json:"users_processed"`
	UsersSkipped      int `json:"users_skipped"`
	ArchivesProcessed int `json:"archives_processed"`
	ArchivesSkipped   int `json:"archives_skipped"`
	GamesProcessed    int `json:"games_processed"`
	SampleGames       int `json:"sample_games"`
}
