package cache

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/gmetric"
	"github.com/viant/xproxy/internal/fixture"
	"github.com/viant/xproxy/logger"
	"github.com/viant/xproxy/metric"
	"github.com/viant/xproxy/proxy"
)

func echoDescriptor(name string) *proxy.Descriptor {
	return &proxy.Descriptor{
		Name: name,
		Type: reflect.TypeOf(&fixture.Echo{}),
		Activator: func(args ...interface{}) (interface{}, error) {
			if len(args) > 0 {
				return nil, errors.New("unexpected args")
			}
			return &fixture.Echo{}, nil
		},
	}
}

type fakeLoader struct {
	loads int32
	err   error
}

func (f *fakeLoader) Load(ctx context.Context, infoURL string) (*proxy.Descriptor, error) {
	atomic.AddInt32(&f.loads, 1)
	if f.err != nil {
		return nil, f.err
	}
	name := infoURL[strings.LastIndex(infoURL, "/")+1:]
	return echoDescriptor(strings.TrimSuffix(name, infoExt)), nil
}

func TestHash(t *testing.T) {
	a := Hash("interface:Hooker, fixture")
	assert.EqualValues(t, a, Hash("interface:Hooker, fixture"))
	assert.NotEqual(t, a, Hash("interface:Greeter, fixture"))
	assert.NotContains(t, a, "/")
	assert.NotContains(t, a, "=")
}

func TestRegistry(t *testing.T) {
	buffer := bytes.Buffer{}
	registry := NewRegistry(logger.New(logger.WARN, &buffer))
	assert.True(t, registry.Register(&Entry{Name: "B", Activator: echoDescriptor("B").Activator}))
	added, err := registry.RegisterDescriptor(echoDescriptor("A"))
	require.Nil(t, err)
	assert.True(t, added)
	added, err = registry.RegisterDescriptor(echoDescriptor("A"))
	require.Nil(t, err)
	assert.False(t, added)
	assert.Contains(t, buffer.String(), "duplicate registration ignored")
	assert.EqualValues(t, []string{"A", "B"}, registry.Keys())

	_, err = registry.RegisterDescriptor(&proxy.Descriptor{Name: "C"})
	assert.NotNil(t, err)

	instance, err := registry.Activate("A")
	require.Nil(t, err)
	assert.IsType(t, &fixture.Echo{}, instance)
	_, err = registry.Activate("A", 1)
	assert.EqualError(t, err, "failed to activate A: unexpected args")
	_, err = registry.Activate("Z")
	assert.EqualError(t, err, "failed to lookup generated type: Z")
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	store := NewStore("mem://localhost/xproxy/store", fs)
	require.Nil(t, store.Init(ctx))
	require.Nil(t, store.Init(ctx))

	expected := NewManifest("HookerProxy_1", "interface:Hooker", "v1")
	_, ok, err := store.Lookup(ctx, expected)
	require.Nil(t, err)
	assert.False(t, ok)

	require.Nil(t, store.Put(ctx, expected))
	_, ok, err = store.Lookup(ctx, expected)
	require.Nil(t, err)
	assert.False(t, ok, "manifest without plugin info")

	require.Nil(t, fs.Upload(ctx, store.ModuleURL("HookerProxy_1")+gzipExt, file.DefaultFileOsMode, strings.NewReader("so")))
	require.Nil(t, fs.Upload(ctx, store.InfoURL("HookerProxy_1"), file.DefaultFileOsMode, strings.NewReader(`{"Compression":"gzip"}`)))
	withModules := NewManifest("HookerProxy_1", "interface:Hooker", "v1")
	withModules.Modules = []string{"github.com/viant/afs@v1.29.0"}
	var testCases = []struct {
		description string
		expected    *Manifest
		expectOk    bool
	}{
		{description: "match", expected: NewManifest("HookerProxy_1", "interface:Hooker", "v1"), expectOk: true},
		{description: "generator changed", expected: NewManifest("HookerProxy_1", "interface:Hooker", "v2")},
		{description: "identity changed", expected: NewManifest("HookerProxy_1", "interface:Other", "v1")},
		{description: "module versions changed", expected: withModules},
	}
	for _, testCase := range testCases {
		manifest, ok, err := store.Lookup(ctx, testCase.expected)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expectOk, ok, testCase.description)
		require.NotNil(t, manifest, testCase.description)
		assert.False(t, manifest.Created.IsZero(), testCase.description)
	}
	assert.EqualValues(t, "mem://localhost/xproxy/store/HookerProxy_1.pinf", store.InfoURL("HookerProxy_1"))

	require.Nil(t, store.Delete(ctx, "HookerProxy_1"))
	_, ok, _ = store.Lookup(ctx, expected)
	assert.False(t, ok)
	for _, URL := range []string{store.InfoURL("HookerProxy_1"), store.ModuleURL("HookerProxy_1") + gzipExt} {
		exists, _ := fs.Exists(ctx, URL)
		assert.False(t, exists, URL)
	}
	require.Nil(t, store.Delete(ctx, "HookerProxy_1"))
}

func compiler(fs afs.Service, calls *int32, gate chan struct{}, err error) Compile {
	return func(ctx context.Context, outputURL string) (string, error) {
		atomic.AddInt32(calls, 1)
		if gate != nil {
			<-gate
		}
		if err != nil {
			return "", err
		}
		if err := fs.Upload(ctx, outputURL, file.DefaultFileOsMode, strings.NewReader("so")); err != nil {
			return "", err
		}
		infoURL := strings.Replace(outputURL, moduleExt, infoExt, 1)
		return infoURL, fs.Upload(ctx, infoURL, file.DefaultFileOsMode, strings.NewReader("{}"))
	}
}

func TestService_ResolveCoalesced(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	store := NewStore("mem://localhost/xproxy/coalesced", fs)
	loader := &fakeLoader{}
	service := NewService(NewRegistry(nil), store, WithLoader(loader), WithGenerator("v1"), WithMetrics(metric.New(gmetric.New())))

	var calls int32
	gate := make(chan struct{})
	request := &Request{Name: "HookerProxy_1", Identity: "interface:Hooker", Compile: compiler(fs, &calls, gate, nil)}
	waiters := 8
	var wg sync.WaitGroup
	entries := make([]*Entry, waiters)
	errs := make([]error, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entries[i], errs[i] = service.Resolve(ctx, request)
		}(i)
	}
	assert.Eventually(t, func() bool { return service.State(request.Name) == Compiling }, time.Second, time.Millisecond)
	close(gate)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&loader.loads))
	for i := 0; i < waiters; i++ {
		require.Nil(t, errs[i])
		assert.Same(t, entries[0], entries[i])
	}
	assert.EqualValues(t, Loaded, service.State(request.Name))

	restarted := NewService(NewRegistry(nil), store, WithLoader(loader), WithGenerator("v1"))
	entry, err := restarted.Resolve(ctx, request)
	require.Nil(t, err)
	assert.EqualValues(t, request.Name, entry.Name)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "served from store")

	upgraded := NewService(NewRegistry(nil), store, WithLoader(loader), WithGenerator("v2"))
	_, err = upgraded.Resolve(ctx, request)
	require.Nil(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "stale manifest recompiled")

	buffer := bytes.Buffer{}
	bumped := NewService(NewRegistry(nil), store, WithLoader(loader), WithGenerator("v2"), WithLogger(logger.New(logger.INFO, &buffer)))
	_, err = bumped.Resolve(ctx, &Request{Name: request.Name, Identity: request.Identity, Modules: []string{"github.com/viant/afs@v1.30.0"}, Compile: request.Compile})
	require.Nil(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls), "module versions changed")
	assert.Contains(t, buffer.String(), "stale module manifest")
}

func TestService_ResolveFailure(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	service := NewService(NewRegistry(nil), NewStore("mem://localhost/xproxy/failure", fs), WithLoader(&fakeLoader{}))
	var calls int32
	request := &Request{Name: "BrokenProxy_1", Identity: "interface:Broken", Compile: compiler(fs, &calls, nil, errors.New("undefined: target"))}

	_, err := service.Resolve(ctx, request)
	assert.EqualError(t, err, "undefined: target")
	assert.EqualValues(t, Failed, service.State(request.Name))
	_, ok := service.Registry().Lookup(request.Name)
	assert.False(t, ok)

	_, err = service.Resolve(ctx, request)
	assert.NotNil(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "explicit re-request compiles again")

	_, err = service.Resolve(ctx, &Request{Name: "Missing_1"})
	assert.NotNil(t, err)

	loadFailure := NewService(NewRegistry(nil), NewStore("mem://localhost/xproxy/load", fs), WithLoader(&fakeLoader{err: errors.New("plugin was built with a different version")}))
	_, err = loadFailure.Resolve(ctx, &Request{Name: "HookerProxy_2", Compile: compiler(fs, &calls, nil, nil)})
	assert.NotNil(t, err)
	assert.EqualValues(t, Failed, loadFailure.State("HookerProxy_2"))
}

func TestService_WaiterCancellation(t *testing.T) {
	fs := afs.New()
	service := NewService(NewRegistry(nil), NewStore("mem://localhost/xproxy/cancel", fs), WithLoader(&fakeLoader{}))
	var calls int32
	gate := make(chan struct{})
	request := &Request{Name: "GreeterProxy_1", Identity: "interface:Greeter", Compile: compiler(fs, &calls, gate, nil)}

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancelled := make(chan error, 1)
	go func() {
		_, err := service.Resolve(cancelCtx, request)
		cancelled <- err
	}()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)

	waiter := make(chan *Entry, 1)
	go func() {
		entry, _ := service.Resolve(context.Background(), request)
		waiter <- entry
	}()
	cancel()
	assert.ErrorIs(t, <-cancelled, context.Canceled)

	close(gate)
	entry := <-waiter
	require.NotNil(t, entry)
	assert.EqualValues(t, request.Name, entry.Name)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
