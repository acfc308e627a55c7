package domain

import "errors"

var (
	// ErrEmptyKeyword is returned when a keyword is empty after trimming.
	ErrEmptyKeyword = errors.New("empty keyword")
	// ErrKeywordExists is returned when the keyword is already monitored for the user.
	ErrKeywordExists = errors.New("keyword already exists")
	// ErrKeywordNotFound is returned when removing a keyword the user never added.
	ErrKeywordNotFound = errors.New("keyword not found")
	// ErrInvalidFrequency is returned for polling frequencies below one hour.
	ErrInvalidFrequency = errors.New("invalid frequency")
	// ErrAlreadySaved is returned when the user already saved an article with the same URL.
	ErrAlreadySaved = errors.New("article already saved")
	// ErrPromptNotFound is returned when a save prompt was consumed, expired or never existed.
	ErrPromptNotFound = errors.New("save prompt not found")
)
