// Package framerec contains a frame recorder used to automatically save
// reconstructed video frames to disk.
package framerec

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"goji.io/pat"

	"github.com/openwave-gw/godso/generichttp"
)

// Recorder writes frame sequences with incrementing filenames in yyyy-mm-dd
// subfolders.  It is not thread safe.
type Recorder struct {
	// counter is the internally incrementing counter
	counter int

	// Root is the root path
	Root string

	// Prefix is the prefix for the filenames
	Prefix string

	// timeFldr is the subfolder with yyyy-mm-dd format
	timeFldr string

	// Enabled allows consumers to skip recording without tearing
	// the recorder down
	Enabled bool
}

// updateFolder checks the current time and updates the folder name as needed
func (r *Recorder) updateFolder() {
	now := time.Now()
	r.timeFldr = fmt.Sprintf("%04d-%02d-%02d", now.Year(), now.Month(), now.Day())
}

// mkDir makes the folder and returns it
func (r *Recorder) mkDir() (string, error) {
	fldr := path.Join(r.Root, r.timeFldr)
	err := os.MkdirAll(fldr, 0777)
	return fldr, err
}

// Write implements io.Writer and writes the contents of a FITS file to disk
func (r *Recorder) Write(p []byte) (n int, err error) {
	r.updateFolder()
	fldr, err := r.mkDir()
	if err != nil {
		return 0, err
	}
	fn := fmt.Sprintf("%s%06d.fits", r.Prefix, r.counter)
	fn = path.Join(fldr, fn)
	fid, err := os.OpenFile(fn, os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil && os.IsNotExist(err) {
		fid, err = os.Create(fn)
	}
	if err != nil {
		return 0, err
	}
	defer fid.Close()
	return fid.Write(p)
}

// Incr updates the filename counter by scanning the folder.  If there is an
// error, the counter is not incremented.
func (r *Recorder) Incr() {
	r.updateFolder()
	dn, _ := r.mkDir()
	files, err := ioutil.ReadDir(dn)
	if err != nil {
		return
	}
	count := 0
	for _, file := range files {
		// skip directories, non-fits, and wrong prefix
		if file.IsDir() {
			continue
		}
		fn := file.Name()
		if !strings.HasSuffix(fn, ".fits") || !strings.HasPrefix(fn, r.Prefix) {
			continue
		}
		bit := strings.TrimSuffix(strings.TrimPrefix(fn, r.Prefix), ".fits")
		n, err := strconv.Atoi(bit)
		if err != nil {
			// hand-named file like frame-old.fits; not part of the sequence
			continue
		}
		if count < n {
			count = n
		}
	}
	r.counter = count + 1
}

// HTTPWrapper allows the recorder's folder and prefix to be changed on the
// fly.  It does not implement generichttp.HTTPer; Inject adds its routes to
// another HTTPer's table.
type HTTPWrapper struct {
	*Recorder
}

// NewHTTPWrapper returns an HTTP wrapper around a recorder
func NewHTTPWrapper(r *Recorder) HTTPWrapper {
	return HTTPWrapper{r}
}

// SetRoot updates the root folder of the recorder
func (h HTTPWrapper) SetRoot(root string) error {
	h.Recorder.Root = root
	h.Recorder.updateFolder()
	_, err := h.Recorder.mkDir()
	return err
}

// SetPrefix updates the filename prefix of the recorder and resets the counter
func (h HTTPWrapper) SetPrefix(prefix string) error {
	h.Recorder.Prefix = prefix
	h.Recorder.counter = 0
	return nil
}

// Inject adds GET and POST routes under /autowrite which manipulate this
// wrapper's recorder
func (h HTTPWrapper) Inject(other generichttp.HTTPer) {
	rt := other.RT()
	rt[pat.Post("/autowrite/root")] = generichttp.SetString(h.SetRoot)
	rt[pat.Get("/autowrite/root")] = generichttp.GetString(func() (string, error) { return h.Recorder.Root, nil })
	rt[pat.Post("/autowrite/prefix")] = generichttp.SetString(h.SetPrefix)
	rt[pat.Get("/autowrite/prefix")] = generichttp.GetString(func() (string, error) { return h.Recorder.Prefix, nil })
	rt[pat.Post("/autowrite/enabled")] = generichttp.SetBool(h.enable, h.disable)
	rt[pat.Get("/autowrite/enabled")] = generichttp.GetBool(func() (bool, error) { return h.Recorder.Enabled, nil })
}

func (h HTTPWrapper) enable() error {
	h.Recorder.Enabled = true
	return nil
}

func (h HTTPWrapper) disable() error {
	h.Recorder.Enabled = false
	return nil
}
