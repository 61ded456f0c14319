// Package formdata decodes multipart/form-data request bodies as a stream.
//
// Size limits are checked while bytes arrive, never after the body has been
// buffered, so an oversized upload is rejected early. Every failure the
// caller is expected to handle is reported as a *DecodeError with a Kind:
//
//	form, err := formdata.Decode(ctx, r.Header.Get("Content-Type"), r.Body, limits)
//	if kind, ok := formdata.KindOf(err); ok {
//	    // MalformedRequest, TotalTooLarge, FieldTooLarge or IncompleteBody
//	}
//	defer form.RemoveAll()
package formdata
