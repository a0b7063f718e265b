// Package cli is the interactive MoodKeeper client.
//
// NewRootCommand builds the cobra tree: shell (the default) opens the local
// database, restores the saved session, loads the entries and runs a REPL;
// moods prints the catalog; version prints build data.
//
// REPL commands:
//   - register, login, logout
//   - checkin: pick moods, optional place, weather, sleep and exercise
//     hours, notes, photo and voice note files
//   - lane: Memory Lane, entries grouped by day, newest first
//   - refresh, delete <id>
//   - photo <id>, voice <id>: download an attachment
//   - insights: streaks, heatmap, category split, top moods, averages
package cli
