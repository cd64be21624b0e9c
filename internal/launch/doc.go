// Package launch brings up the container's two long-lived processes: the
// webapp manager in the background and the scheduler in the foreground. The
// launcher's lifetime and exit code are the scheduler's. There is no
// supervision; a webapp manager exit is logged when observed and nothing more.
package launch
