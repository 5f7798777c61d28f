//go:build darwin && cgo

package filedrag

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework AppKit -framework Foundation

#import <AppKit/AppKit.h>
#include <stdlib.h>
#include <string.h>

// dragFileURL returns 1 when the drag pasteboard carries a file URL and
// stores a malloc'd copy of its path in *path (NULL if it has none).
static int dragFileURL(char **path) {
	*path = NULL;
	@autoreleasepool {
		NSPasteboard *pb = [NSPasteboard pasteboardWithName:NSPasteboardNameDrag];
		if (![[pb types] containsObject:@"public.file-url"]) {
			return 0;
		}
		NSURL *url = [NSURL URLFromPasteboard:pb];
		if (url != nil && [url isFileURL]) {
			const char *p = [[url path] fileSystemRepresentation];
			if (p != NULL) {
				*path = strdup(p);
			}
		}
		return 1;
	}
}
*/
import "C"

import "unsafe"

func platformPasteboard() Pasteboard {
	return func() (string, bool) {
		var cpath *C.char
		if C.dragFileURL(&cpath) == 0 {
			return "", false
		}
		if cpath == nil {
			return "", true
		}
		defer C.free(unsafe.Pointer(cpath))
		return C.GoString(cpath), true
	}
}
