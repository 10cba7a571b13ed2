package classify

import "errors"

// ErrManifest indicates the testcase manifest could not be read.
var ErrManifest = errors.New("read testcase manifest")
