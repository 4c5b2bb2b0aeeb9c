// Package recap checks whether a baseball team finished a game yesterday and,
// if it did, texts a link to the game's video recap through a carrier's
// email-to-SMS gateway.
//
// Everything happens once per invocation: resolve yesterday's date, ask the
// MLB Stats API for the team's schedule on that date, build the recap URL for
// the first final game, and mail it. Something like cron is expected to run
// the binary each morning.
package recap
