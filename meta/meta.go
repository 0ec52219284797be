// meta/meta.go
package meta

import "time"

// SEATS is the number of players at every table.
const SEATS = 4

// TURN_LIMIT stops a game that has no winner after this many turns.
const TURN_LIMIT = 120

// GAMES_PER_MATCHUP is how often each table of players is replayed.
const GAMES_PER_MATCHUP = 5

// PARALLELISM is the number of games played at once.
const PARALLELISM = 1

// MAX_RETRIES bounds the backend attempts for one decision.
const MAX_RETRIES = 3

const TEMPERATURE = 0.1

// TIMEOUT bounds one backend call.
const TIMEOUT = 30 * time.Second

// RETRY_BACKOFF is the pause between failed attempts of one decision.
const RETRY_BACKOFF = 500 * time.Millisecond

const INITIAL_ELO = 1500.0

const K_FACTOR = 32.0

const OUTPUT_DIR = "tournament_results"

// RANDOM_PREFIX names the uniform random players that fill empty seats.
const RANDOM_PREFIX = "Random_"
