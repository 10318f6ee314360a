package jyaml

import "github.com/shapestone/shape-jyaml/internal/errs"

// Error is the structured error returned by every operation in this package.
// Use errors.As to inspect its Kind and position, or errors.Is with one of the
// Err* sentinels to match by kind.
type Error = errs.Error

// ErrorKind enumerates the error taxonomy.
type ErrorKind = errs.Kind

// Error kinds.
const (
	KindSyntax                  = errs.Syntax
	KindUnexpectedToken         = errs.UnexpectedToken
	KindInvalidEscape           = errs.InvalidEscape
	KindInconsistentIndentation = errs.InconsistentIndentation
	KindTabInIndentation        = errs.TabInIndentation
	KindInvalidNumber           = errs.InvalidNumber
	KindDuplicateKey            = errs.DuplicateKey
	KindBlockInFlow             = errs.BlockInFlow
	KindInvalidUtf8             = errs.InvalidUtf8
	KindBomNotAllowed           = errs.BomNotAllowed
	KindInvalidOptions          = errs.InvalidOptions
	KindMaxDepth                = errs.MaxDepth
	KindSerialization           = errs.Serialization
	KindDeserialization         = errs.Deserialization
)

// Sentinels for errors.Is.
//
//	if errors.Is(err, jyaml.ErrDuplicateKey) { ... }
var (
	ErrSyntax                  = errs.ErrSyntax
	ErrUnexpectedToken         = errs.ErrUnexpectedToken
	ErrInvalidEscape           = errs.ErrInvalidEscape
	ErrInconsistentIndentation = errs.ErrInconsistentIndentation
	ErrTabInIndentation        = errs.ErrTabInIndentation
	ErrInvalidNumber           = errs.ErrInvalidNumber
	ErrDuplicateKey            = errs.ErrDuplicateKey
	ErrBlockInFlow             = errs.ErrBlockInFlow
	ErrInvalidUtf8             = errs.ErrInvalidUtf8
	ErrBomNotAllowed           = errs.ErrBomNotAllowed
	ErrInvalidOptions          = errs.ErrInvalidOptions
	ErrMaxDepth                = errs.ErrMaxDepth
	ErrSerialization           = errs.ErrSerialization
	ErrDeserialization         = errs.ErrDeserialization
)
