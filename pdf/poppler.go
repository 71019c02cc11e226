//go:build poppler

package pdf

/*
#cgo pkg-config: glib-2.0 gio-2.0 poppler-glib

#include <locale.h>
#include <stdlib.h>
#include <poppler/glib/poppler.h>

PopplerDocument *open_document(const char *filename, int *num_pages, char **errmsg){
	GFile* file = g_file_new_for_path(filename);
	if(file == NULL){
		return NULL;
	}

	GError* error = NULL;
	GBytes* bytes = g_file_load_bytes(file, NULL, NULL, &error);
	g_object_unref(file);

	if (error != NULL) {
		*errmsg = g_strdup(error->message);
		g_clear_error(&error);
		return NULL;
	}

	PopplerDocument *doc = poppler_document_new_from_bytes(bytes, NULL, &error);
	g_bytes_unref(bytes);
	if (error != NULL) {
		*errmsg = g_strdup(error->message);
		g_clear_error(&error);
		return NULL;
	}

	*num_pages = poppler_document_get_n_pages(doc);
	return doc;
}

char *page_text(PopplerDocument *doc, int page_num){
	PopplerPage *page = poppler_document_get_page(doc, page_num);
	if(page == NULL){
		return NULL;
	}
	char *text = poppler_page_get_text(page);
	g_object_unref(page);
	return text;
}
*/
import "C"

import (
	"context"
	"errors"
	"sync"
	"unsafe"
)

// Ensure Poppler implements Extractor at compile time.
var _ Extractor = (*Poppler)(nil)

var setLocale sync.Once

// Poppler extracts page text through poppler-glib. It handles more
// encodings than Reader but needs the C libraries at build time.
type Poppler struct{}

// NewPoppler creates a Poppler extractor and sets the process locale to the
// environment's so that poppler decodes UTF-8 text.
func NewPoppler() *Poppler {
	setLocale.Do(func() {
		empty := C.CString("")
		defer C.free(unsafe.Pointer(empty))
		C.setlocale(C.LC_ALL, empty)
	})
	return &Poppler{}
}

// NewExtractor returns the poppler extractor in builds tagged poppler.
func NewExtractor() Extractor {
	return NewPoppler()
}

func (p *Poppler) Pages(ctx context.Context, path string) ([]string, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var numPages C.int
	var errmsg *C.char
	doc := C.open_document(cPath, &numPages, &errmsg)
	if doc == nil {
		msg := "unable to open document"
		if errmsg != nil {
			msg = C.GoString(errmsg)
			C.g_free(C.gpointer(errmsg))
		}
		return nil, extractionErr(path, errors.New(msg))
	}
	defer C.g_object_unref(C.gpointer(doc))

	pages := make([]string, 0, int(numPages))
	for i := range int(numPages) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		gText := C.page_text(doc, C.int(i))
		if gText == nil {
			pages = append(pages, "")
			continue
		}
		text := C.GoString(gText)
		C.g_free(C.gpointer(gText))
		pages = append(pages, CleanText(text))
	}
	return pages, nil
}
