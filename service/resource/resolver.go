package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/config"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/crypto"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/storage"
)

var errNotPersisted = errors.New("not in persisted store")

type resolverService struct {
	CfgSvc     config.IService
	StorageSvc storage.IService
	CryptoSvc  crypto.IService
}

func NewResolver(cfgsvc config.IService, storagesvc storage.IService, cryptosvc crypto.IService) IService {
	return &resolverService{
		CfgSvc:     cfgsvc,
		StorageSvc: storagesvc,
		CryptoSvc:  cryptosvc,
	}
}

// Resolve tries the persisted store (plain, then each encrypted variant) and
// finally the bundled assets, which are copied into the persisted store so
// the next call is served from there.
func (svc *resolverService) Resolve(ctx context.Context, d model.ResourceDescriptor) ([]byte, error) {
	const op = "resource.resolve"

	if err := ctx.Err(); err != nil {
		return nil, model.WrapError(model.CodeCanceled, op, "resolution canceled", err)
	}
	if d.Name == "" {
		return nil, model.NewError(model.CodeResourceInvalidName, op, "resource name is empty")
	}

	file := d.FileName()
	data, err := svc.fromPersisted(file)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, errNotPersisted) {
		return nil, err
	}

	copied, err := svc.copyBundled(file)
	if err != nil {
		return nil, err
	}
	if !copied {
		return nil, model.NewError(model.CodeResourceNotFound, op, "resource %s not found", file)
	}

	data, err = svc.fromPersisted(file)
	if errors.Is(err, errNotPersisted) {
		return nil, model.NewError(model.CodeResourceAccessFailed, op, "resource %s vanished after copy", file)
	}
	return data, err
}

func (svc *resolverService) fromPersisted(file string) ([]byte, error) {
	const op = "resource.persisted"

	data, found, err := svc.StorageSvc.ReadPersisted(file)
	if err != nil {
		return nil, model.WrapError(model.CodeResourceAccessFailed, op, "reading "+file, err)
	}
	if found {
		return data, nil
	}

	for _, ext := range model.EncryptedExtensions {
		name := file + ext
		data, found, err := svc.StorageSvc.ReadPersisted(name)
		if err != nil {
			return nil, model.WrapError(model.CodeResourceAccessFailed, op, "reading "+name, err)
		}
		if !found {
			continue
		}

		key := svc.CfgSvc.GetDecryptionKey()
		if key == "" {
			return nil, model.NewError(model.CodeDecryptionKeyMissing, op, "%s is encrypted and no decryption key is configured", name)
		}

		plain, err := svc.CryptoSvc.Decrypt(data, []byte(key))
		if err != nil {
			return nil, model.WrapError(model.CodeDecryptionFailed, op, "decrypting "+name, err)
		}
		return plain, nil
	}

	return nil, errNotPersisted
}

func (svc *resolverService) copyBundled(file string) (bool, error) {
	const op = "resource.bundled"

	candidates := append([]string{file}, withExtensions(file)...)
	for _, name := range candidates {
		data, found, err := svc.StorageSvc.ReadBundled(name)
		if err != nil {
			return false, model.WrapError(model.CodeResourceAccessFailed, op, "reading bundled "+name, err)
		}
		if !found {
			continue
		}

		if err := svc.StorageSvc.WritePersisted(name, data); err != nil {
			return false, model.WrapError(model.CodeResourceAccessFailed, op, "copying bundled "+name, err)
		}
		lgr.Logger.Info(
			"bundled resource copied to persisted store",
			slog.String("name", name),
			slog.Int("bytes", len(data)),
		)
		return true, nil
	}
	return false, nil
}

func withExtensions(file string) []string {
	out := make([]string, 0, len(model.EncryptedExtensions))
	for _, ext := range model.EncryptedExtensions {
		out = append(out, file+ext)
	}
	return out
}

func (svc *resolverService) ResolveBatch(ctx context.Context, names []string, typ model.ResourceType, sex *model.Sex) (map[string][]byte, error) {
	const op = "resource.batch"

	resolved := make(map[string][]byte, len(names))
	var missing []string
	var causes []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, model.WrapError(model.CodeCanceled, op, "batch resolution canceled", err)
		}

		d := model.NewResource(name, typ)
		if sex != nil {
			d = d.ForSex(*sex)
		}
		data, err := svc.Resolve(ctx, d)
		if err != nil {
			missing = append(missing, d.FileName())
			causes = append(causes, err)
			continue
		}
		resolved[name] = data
	}

	// The set can also come up short on duplicate names; either way the
	// batch is unusable.
	if len(resolved) != len(names) {
		lgr.Logger.Warn(
			"model batch incomplete",
			slog.String("type", typ.String()),
			slog.Int("expected", len(names)),
			slog.Int("resolved", len(resolved)),
			slog.String("missing", fmt.Sprintf("%v", missing)),
		)
		return nil, &model.Error{
			Kind:    model.KindResourceIncomplete,
			Code:    model.CodeModelsMissing,
			Op:      op,
			Message: fmt.Sprintf("resolved %d of %d %s models, missing %v", len(resolved), len(names), typ, missing),
			Cause:   errors.Join(causes...),
		}
	}

	return resolved, nil
}
