// Package domain defines the core business entities of the vocabulary trainer:
// decks, cards, per-user card progress, review logs, and user statistics.
package domain
