package latent

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for cell and store events.
var (
	SignalCellSealed   = capitan.NewSignal("latent.cell.sealed", "Cell constructed over ciphertext")
	SignalCellOpened   = capitan.NewSignal("latent.cell.opened", "Cell decoded in place on first read")
	SignalCellReleased = capitan.NewSignal("latent.cell.released", "Cell end-of-life action applied")
	SignalStoreLoaded  = capitan.NewSignal("latent.store.loaded", "Bundle decoded into a store")
	SignalStoreClosed  = capitan.NewSignal("latent.store.closed", "Store released every cell")
	SignalBindComplete = capitan.NewSignal("latent.bind.complete", "Struct fields bound to store cells")
)

// Keys for typed event data.
var (
	KeySecret      = capitan.NewStringKey("secret")
	KeyCipher      = capitan.NewStringKey("cipher")
	KeyView        = capitan.NewStringKey("view")
	KeyRelease     = capitan.NewStringKey("release")
	KeyPriorState  = capitan.NewStringKey("prior_state")
	KeyContentType = capitan.NewStringKey("content_type")
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeySize        = capitan.NewIntKey("size")
	KeyCount       = capitan.NewIntKey("count")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitCellSealed emits an event when a cell is constructed.
func emitCellSealed(ctx context.Context, name string, algo CipherAlgo, view ViewMode, release ReleaseKind, size int) {
	capitan.Emit(ctx, SignalCellSealed,
		KeySecret.Field(name),
		KeyCipher.Field(string(algo)),
		KeyView.Field(string(view)),
		KeyRelease.Field(string(release)),
		KeySize.Field(size),
	)
}

// emitCellOpened emits an event after the single in-place decode.
func emitCellOpened(ctx context.Context, name string, algo CipherAlgo, size int, duration time.Duration) {
	capitan.Emit(ctx, SignalCellOpened,
		KeySecret.Field(name),
		KeyCipher.Field(string(algo)),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	)
}

// emitCellReleased emits an event after the end-of-life action.
func emitCellReleased(ctx context.Context, name string, release ReleaseKind, prior State, err error) {
	fields := []capitan.Field{
		KeySecret.Field(name),
		KeyRelease.Field(string(release)),
		KeyPriorState.Field(prior.String()),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalCellReleased, fields...)
	} else {
		capitan.Emit(ctx, SignalCellReleased, fields...)
	}
}

// emitStoreLoaded emits an event when a bundle load finishes.
func emitStoreLoaded(ctx context.Context, contentType string, count int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyCount.Field(count),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalStoreLoaded, fields...)
	} else {
		capitan.Emit(ctx, SignalStoreLoaded, fields...)
	}
}

// emitStoreClosed emits an event when a store has released its cells.
func emitStoreClosed(ctx context.Context, count int, err error) {
	fields := []capitan.Field{
		KeyCount.Field(count),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalStoreClosed, fields...)
	} else {
		capitan.Emit(ctx, SignalStoreClosed, fields...)
	}
}

// emitBindComplete emits an event when Bind finishes.
func emitBindComplete(ctx context.Context, typeName string, count int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyCount.Field(count),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalBindComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalBindComplete, fields...)
	}
}
