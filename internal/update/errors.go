package update

import (
	"errors"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Transport and high level messages.
const (
	MsgURLMustPointToJSON         = "URL must point to a JSON file."
	MsgUnableToFindTempDirectory  = "Unable to find temp directory."
	MsgUnknownErrorOccurred       = "An unknown error occurred: "
	MsgFailedToLaunchDownloader   = "Failed to launch the Radeon Tools Download Assistant (rtda)."
	MsgFailedToLoadLatestRelease  = "Failed to load latest release information."
	MsgFailedToLoadVersionFile    = "Failed to load version file."
	MsgDownloadedEmptyVersionFile = "Downloaded an empty version file."
	MsgFailedToParseVersionFile   = "Failed to parse version file."
	MsgUnsupportedSchemaVersion   = "The schema version of the version file is not supported; latest supported version is " + CurrentSchemaVersion + "."
	MsgMissingAssetsElement       = "The latest releases JSON is missing the assets element. "
	MsgAssetNotFound              = "The required asset was not found in the assets list. "
	MsgDownloadURLNotFoundInAsset = "The download url was not found for the required asset. "
	MsgInvalidReleaseVersion      = "The version file contains an invalid " + tagReleaseVersion + " number. "

	msgMissingPrefix    = "The version file is missing the "
	msgEntrySuffix      = " entry. "
	msgEmptyPrefix      = "The version file contains an empty "
	msgInvalidPrefix    = "The version file contains an invalid "
	msgIncompletePrefix = "The version file contains an incomplete "
)

// MissingEntry is the message for a required tag that is absent.
func MissingEntry(tag string) string { return msgMissingPrefix + tag + msgEntrySuffix }

// EmptyList is the message for a required list that has no elements.
func EmptyList(tag string) string { return msgEmptyPrefix + tag + " list. " }

// InvalidValue is the message for an unrecognised token.
func InvalidValue(tag string) string { return msgInvalidPrefix + tag + " value. " }

// IncompleteEntry is the message for a list element lacking a required sub-field.
func IncompleteEntry(tag string) string { return msgIncompletePrefix + tag + msgEntrySuffix }

// ErrorKind groups failures for exit-code selection.
type ErrorKind int

const (
	// KindInternal covers failures that are neither transport nor manifest problems.
	KindInternal ErrorKind = iota
	// KindTransport covers helper launch, temp directory and missing/empty file failures.
	KindTransport
	// KindSchema covers missing fields, empty lists, bad tokens and malformed JSON.
	KindSchema
	// KindSemantic covers unsupported schema versions and GitHub asset lookups.
	KindSemantic
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindSchema:
		return "schema"
	case KindSemantic:
		return "semantic"
	default:
		return "internal"
	}
}

// CheckError is the failure side of a check: an ordered list of messages.
// Error() concatenates them the way they are meant to be shown to a user.
type CheckError struct {
	Kind     ErrorKind
	Messages []string

	merr *multierror.Error
}

func (e *CheckError) Error() string {
	if e.merr != nil {
		return e.merr.Error()
	}
	return strings.Join(e.Messages, "")
}

func (e *CheckError) Unwrap() error {
	if e.merr == nil {
		return nil
	}
	return e.merr
}

// Messages returns the accumulated messages of err, or err.Error() for foreign errors.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Messages
	}
	return []string{err.Error()}
}

// collector accumulates messages for one check. The first Kind recorded wins.
type collector struct {
	errs *multierror.Error
	kind ErrorKind
	set  bool
}

func (c *collector) add(kind ErrorKind, msg string) {
	if !c.set {
		c.kind = kind
		c.set = true
	}
	c.errs = multierror.Append(c.errs, errors.New(msg))
}

// schema records a manifest validation message.
func (c *collector) schema(msg string) { c.add(KindSchema, msg) }

func (c *collector) failed() bool {
	return c.errs != nil && len(c.errs.Errors) > 0
}

// err returns a *CheckError, or nil when nothing was recorded.
func (c *collector) err() error {
	if !c.failed() {
		return nil
	}
	c.errs.ErrorFormat = concatFormat
	msgs := make([]string, 0, len(c.errs.Errors))
	for _, e := range c.errs.Errors {
		msgs = append(msgs, e.Error())
	}
	return &CheckError{Kind: c.kind, Messages: msgs, merr: c.errs}
}

// concatFormat renders accumulated messages back to back, matching the
// messages' own trailing spacing.
func concatFormat(es []error) string {
	var b strings.Builder
	for _, e := range es {
		b.WriteString(e.Error())
	}
	return b.String()
}
