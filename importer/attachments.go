package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qatools/allure2testit/allure"
	"github.com/qatools/allure2testit/testit"
)

// uploadAttachments resolves each descriptor against the input directory
// and uploads it, in declaration order. Missing and zero-byte files are
// logged and omitted from the returned refs; an upload failure aborts the
// whole import.
func (imp *Importer) uploadAttachments(ctx context.Context, attachments []allure.Attachment) ([]testit.AttachmentRef, error) {
	refs := make([]testit.AttachmentRef, 0, len(attachments))
	for _, att := range attachments {
		path := filepath.Join(imp.cfg.InputDir, att.Source)

		info, err := os.Stat(path)
		if err != nil {
			imp.logger.Warn().Err(err).Str("source", att.Source).Msg("Skipping missing attachment")
			continue
		}
		if info.Size() == 0 {
			imp.logger.Warn().Str("source", att.Source).Msg("Skipping empty attachment")
			continue
		}

		ref, err := imp.client.UploadAttachment(ctx, path, att.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to upload attachment %s: %w", att.Source, err)
		}
		imp.logger.Debug().Str("source", att.Source).Str("id", ref.ID).Msg("Uploaded attachment")
		refs = append(refs, ref)
	}
	return refs, nil
}
