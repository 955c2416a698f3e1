// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vulkan

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/gogpu/vcl/gpucore"
)

// Buffer is a uniform buffer whose memory is mapped once at creation.
// Map and Unmap only delimit the CPU write window.
type Buffer struct {
	device vk.Device
	buffer vk.Buffer
	memory vk.DeviceMemory
	size   int
	data   []byte
	mapped bool
}

func newBuffer(d *Device, size int) (*Buffer, error) {
	info := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		SharingMode: vk.SharingModeExclusive,
	}
	b := &Buffer{device: d.device, size: size}
	if err := vk.Error(vk.CreateBuffer(d.device, &info, nil, &b.buffer)); err != nil {
		return nil, fmt.Errorf("vulkan: create buffer: %w", err)
	}

	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.device, b.buffer, &req)
	req.Deref()
	typ, err := d.memoryType(req.MemoryTypeBits,
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		b.Destroy()
		return nil, err
	}
	alloc := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: typ,
	}
	if err := vk.Error(vk.AllocateMemory(d.device, &alloc, nil, &b.memory)); err != nil {
		b.Destroy()
		return nil, fmt.Errorf("vulkan: allocate buffer memory: %w", err)
	}
	if err := vk.Error(vk.BindBufferMemory(d.device, b.buffer, b.memory, 0)); err != nil {
		b.Destroy()
		return nil, fmt.Errorf("vulkan: bind buffer memory: %w", err)
	}

	var ptr unsafe.Pointer
	if err := vk.Error(vk.MapMemory(d.device, b.memory, 0, vk.DeviceSize(size), 0, &ptr)); err != nil {
		b.Destroy()
		return nil, fmt.Errorf("vulkan: map buffer memory: %w", err)
	}
	b.data = unsafe.Slice((*byte)(ptr), size)
	return b, nil
}

// Map opens the write window.
func (b *Buffer) Map() ([]byte, error) {
	if b.buffer == nil {
		return nil, gpucore.ErrDestroyed
	}
	if b.mapped {
		return nil, errors.New("vulkan: buffer already mapped")
	}
	b.mapped = true
	return b.data, nil
}

// Unmap closes the write window. Coherent memory needs no flush.
func (b *Buffer) Unmap() error {
	if b.buffer == nil {
		return gpucore.ErrDestroyed
	}
	if !b.mapped {
		return errors.New("vulkan: buffer not mapped")
	}
	b.mapped = false
	return nil
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() int { return b.size }

// Handle returns the VkBuffer for descriptor writes.
func (b *Buffer) Handle() vk.Buffer { return b.buffer }

// Destroy unmaps the memory and destroys the buffer.
func (b *Buffer) Destroy() {
	if b.buffer == nil {
		return
	}
	if b.data != nil {
		vk.UnmapMemory(b.device, b.memory)
	}
	vk.DestroyBuffer(b.device, b.buffer, nil)
	if b.memory != nil {
		vk.FreeMemory(b.device, b.memory, nil)
	}
	b.buffer, b.memory, b.data, b.mapped = nil, nil, nil, false
}

// Texture is a device-local image kept in VK_IMAGE_LAYOUT_GENERAL.
type Texture struct {
	dev    *Device
	image  vk.Image
	memory vk.DeviceMemory
	view   vk.ImageView
	format vk.Format
	vid    gpucore.TextureID
	desc   gpucore.TextureDescription
}

var _ gpucore.Texture = (*Texture)(nil)

func newTexture(d *Device, desc gpucore.TextureDescription) (*Texture, error) {
	format, err := Format(desc.Format)
	if err != nil {
		return nil, err
	}
	types, err := textureType(desc.Type)
	if err != nil {
		return nil, err
	}
	samples, err := sampleCount(desc.Samples)
	if err != nil {
		return nil, err
	}

	var flags vk.ImageCreateFlags
	if desc.Type == gpucore.TextureCube || desc.Type == gpucore.TextureCubeArray {
		flags = vk.ImageCreateFlags(vk.ImageCreateCubeCompatibleBit)
	}
	info := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		Flags:     flags,
		ImageType: types.image,
		Format:    format,
		Extent: vk.Extent3D{
			Width:  uint32(desc.Width),
			Height: uint32(desc.Height),
			Depth:  uint32(desc.Depth),
		},
		MipLevels:     uint32(desc.MipLevels),
		ArrayLayers:   uint32(desc.ArraySize),
		Samples:       samples,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         imageUsage(desc.Usage, desc.Format),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}
	t := &Texture{dev: d, format: format, vid: gpucore.NextTextureID(), desc: desc}
	if err := vk.Error(vk.CreateImage(d.device, &info, nil, &t.image)); err != nil {
		return nil, fmt.Errorf("vulkan: create image %q: %w", desc.Label, err)
	}

	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.device, t.image, &req)
	req.Deref()
	typ, err := d.memoryType(req.MemoryTypeBits, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		t.Destroy()
		return nil, err
	}
	alloc := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: typ,
	}
	if err := vk.Error(vk.AllocateMemory(d.device, &alloc, nil, &t.memory)); err != nil {
		t.Destroy()
		return nil, fmt.Errorf("vulkan: allocate image memory: %w", err)
	}
	if err := vk.Error(vk.BindImageMemory(d.device, t.image, t.memory, 0)); err != nil {
		t.Destroy()
		return nil, fmt.Errorf("vulkan: bind image memory: %w", err)
	}

	t.view, err = d.createView(t.image, format, types.view, viewAspect(desc.Format),
		uint32(desc.MipLevels), uint32(desc.ArraySize))
	if err != nil {
		t.Destroy()
		return nil, err
	}

	err = d.submitOnce(func(cmd vk.CommandBuffer) {
		barrier := vk.ImageMemoryBarrier{
			SType:               vk.StructureTypeImageMemoryBarrier,
			DstAccessMask:       vk.AccessFlags(vk.AccessTransferReadBit | vk.AccessTransferWriteBit),
			OldLayout:           vk.ImageLayoutUndefined,
			NewLayout:           vk.ImageLayoutGeneral,
			SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
			DstQueueFamilyIndex: vk.QueueFamilyIgnored,
			Image:               t.image,
			SubresourceRange:    t.subresources(),
		}
		vk.CmdPipelineBarrier(cmd,
			vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
			vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit),
			0,
			0, nil,
			0, nil,
			1, []vk.ImageMemoryBarrier{barrier})
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("vulkan: initialize image layout: %w", err)
	}
	return t, nil
}

func (d *Device) createView(image vk.Image, format vk.Format, viewType vk.ImageViewType, aspect vk.ImageAspectFlags, levels, layers uint32) (vk.ImageView, error) {
	info := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: viewType,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: aspect,
			LevelCount: levels,
			LayerCount: layers,
		},
	}
	var view vk.ImageView
	if err := vk.Error(vk.CreateImageView(d.device, &info, nil, &view)); err != nil {
		return nil, fmt.Errorf("vulkan: create image view: %w", err)
	}
	return view, nil
}

func (t *Texture) subresources() vk.ImageSubresourceRange {
	return vk.ImageSubresourceRange{
		AspectMask: aspectMask(t.desc.Format),
		LevelCount: uint32(t.desc.MipLevels),
		LayerCount: uint32(t.desc.ArraySize),
	}
}

// ID returns the texture's identity.
func (t *Texture) ID() gpucore.TextureID { return t.vid }

// Description returns the normalized description.
func (t *Texture) Description() gpucore.TextureDescription { return t.desc }

// Handles returns the image and its full view.
func (t *Texture) Handles() (vk.Image, vk.ImageView) { return t.image, t.view }

// copyRegions returns one region per mip level covering all layers.
func (t *Texture) copyRegions() []vk.ImageCopy {
	regions := make([]vk.ImageCopy, 0, t.desc.MipLevels)
	w, h, depth := uint32(t.desc.Width), uint32(t.desc.Height), uint32(t.desc.Depth)
	for level := range uint32(t.desc.MipLevels) {
		layers := vk.ImageSubresourceLayers{
			AspectMask:     aspectMask(t.desc.Format),
			MipLevel:       level,
			BaseArrayLayer: 0,
			LayerCount:     uint32(t.desc.ArraySize),
		}
		regions = append(regions, vk.ImageCopy{
			SrcSubresource: layers,
			DstSubresource: layers,
			Extent:         vk.Extent3D{Width: w, Height: h, Depth: depth},
		})
		w, h, depth = max(w>>1, 1), max(h>>1, 1), max(depth>>1, 1)
	}
	return regions
}

// Clone creates an image with the same description and copies every mip
// level and layer into it. It waits for the copy to complete.
func (t *Texture) Clone() (gpucore.Texture, error) {
	if t.image == nil {
		return nil, gpucore.ErrDestroyed
	}
	c, err := newTexture(t.dev, t.desc)
	if err != nil {
		return nil, err
	}
	regions := t.copyRegions()
	err = t.dev.submitOnce(func(cmd vk.CommandBuffer) {
		barrier := vk.MemoryBarrier{
			SType:         vk.StructureTypeMemoryBarrier,
			SrcAccessMask: vk.AccessFlags(vk.AccessMemoryWriteBit),
			DstAccessMask: vk.AccessFlags(vk.AccessTransferReadBit),
		}
		vk.CmdPipelineBarrier(cmd,
			vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit),
			vk.PipelineStageFlags(vk.PipelineStageTransferBit),
			0,
			1, []vk.MemoryBarrier{barrier},
			0, nil,
			0, nil)
		vk.CmdCopyImage(cmd,
			t.image, vk.ImageLayoutGeneral,
			c.image, vk.ImageLayoutGeneral,
			uint32(len(regions)), regions)
	})
	if err != nil {
		c.Destroy()
		return nil, fmt.Errorf("vulkan: clone %q: %w", t.desc.Label, err)
	}
	return c, nil
}

// Destroy destroys the view and the image and frees its memory.
func (t *Texture) Destroy() {
	if t.image == nil {
		return
	}
	if t.view != nil {
		vk.DestroyImageView(t.dev.device, t.view, nil)
	}
	vk.DestroyImage(t.dev.device, t.image, nil)
	if t.memory != nil {
		vk.FreeMemory(t.dev.device, t.memory, nil)
	}
	t.image, t.memory, t.view = nil, nil, nil
}

// Framebuffer owns a VkFramebuffer, the render pass it was created for and
// the attachment views.
type Framebuffer struct {
	dev         *Device
	renderPass  vk.RenderPass
	framebuffer vk.Framebuffer
	views       []vk.ImageView
	extent      vk.Extent2D
	binds       int
}

func newFramebuffer(d *Device, colors []gpucore.Texture, depth gpucore.Texture) (*Framebuffer, error) {
	if len(colors) > gpucore.MaxColorTargets {
		return nil, fmt.Errorf("vulkan: %d colour targets exceed %d", len(colors), gpucore.MaxColorTargets)
	}

	targets := make([]*Texture, 0, len(colors)+1)
	for i, c := range colors {
		t, err := d.own(c)
		if err != nil {
			return nil, fmt.Errorf("vulkan: colour target %d: %w", i, err)
		}
		if t.desc.Format.IsDepth() {
			return nil, fmt.Errorf("%w: colour target %d has depth format %v", gpucore.ErrUnsupportedFormat, i, t.desc.Format)
		}
		targets = append(targets, t)
	}
	var depthTarget *Texture
	if depth != nil {
		t, err := d.own(depth)
		if err != nil {
			return nil, fmt.Errorf("vulkan: depth target: %w", err)
		}
		if !t.desc.Format.IsDepth() {
			return nil, fmt.Errorf("%w: depth target has colour format %v", gpucore.ErrUnsupportedFormat, t.desc.Format)
		}
		depthTarget = t
		targets = append(targets, t)
	}
	if len(targets) == 0 {
		return nil, errors.New("vulkan: framebuffer without targets")
	}

	fb := &Framebuffer{dev: d}
	fb.extent = vk.Extent2D{Width: uint32(targets[0].desc.Width), Height: uint32(targets[0].desc.Height)}
	attachments := make([]vk.AttachmentDescription, 0, len(targets))
	for _, t := range targets {
		if t.desc.Type == gpucore.Texture3D {
			fb.Destroy()
			return nil, fmt.Errorf("%w: 3D render target", gpucore.ErrUnsupportedTextureType)
		}
		viewType := vk.ImageViewType2d
		if t.desc.Type == gpucore.Texture1D || t.desc.Type == gpucore.Texture1DArray {
			viewType = vk.ImageViewType1d
		}
		view, err := d.createView(t.image, t.format, viewType, aspectMask(t.desc.Format), 1, 1)
		if err != nil {
			fb.Destroy()
			return nil, err
		}
		fb.views = append(fb.views, view)
		fb.extent.Width = min(fb.extent.Width, uint32(t.desc.Width))
		fb.extent.Height = min(fb.extent.Height, uint32(t.desc.Height))
		attachments = append(attachments, attachmentDescription(t))
	}

	colorRefs := make([]vk.AttachmentReference, len(colors))
	for i := range colorRefs {
		colorRefs[i] = vk.AttachmentReference{Attachment: uint32(i), Layout: vk.ImageLayoutGeneral}
	}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: uint32(len(colorRefs)),
		PColorAttachments:    colorRefs,
	}
	if depthTarget != nil {
		subpass.PDepthStencilAttachment = &vk.AttachmentReference{
			Attachment: uint32(len(colors)),
			Layout:     vk.ImageLayoutGeneral,
		}
	}
	passInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
	}
	if err := vk.Error(vk.CreateRenderPass(d.device, &passInfo, nil, &fb.renderPass)); err != nil {
		fb.Destroy()
		return nil, fmt.Errorf("vulkan: create render pass: %w", err)
	}

	fbInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      fb.renderPass,
		AttachmentCount: uint32(len(fb.views)),
		PAttachments:    fb.views,
		Width:           fb.extent.Width,
		Height:          fb.extent.Height,
		Layers:          1,
	}
	if err := vk.Error(vk.CreateFramebuffer(d.device, &fbInfo, nil, &fb.framebuffer)); err != nil {
		fb.Destroy()
		return nil, fmt.Errorf("vulkan: create framebuffer: %w", err)
	}
	return fb, nil
}

// attachmentDescription loads and stores every aspect of t and keeps it
// in the general layout.
func attachmentDescription(t *Texture) vk.AttachmentDescription {
	samples, _ := sampleCount(t.desc.Samples)
	a := vk.AttachmentDescription{
		Format:         t.format,
		Samples:        samples,
		LoadOp:         vk.AttachmentLoadOpLoad,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutGeneral,
		FinalLayout:    vk.ImageLayoutGeneral,
	}
	if t.desc.Format.HasStencil() {
		a.StencilLoadOp = vk.AttachmentLoadOpLoad
		a.StencilStoreOp = vk.AttachmentStoreOpStore
	}
	return a
}

// Bind records the framebuffer as the current draw destination.
func (fb *Framebuffer) Bind() error {
	if fb.framebuffer == nil {
		return gpucore.ErrDestroyed
	}
	fb.dev.bound = fb
	fb.binds++
	return nil
}

// Handles returns the framebuffer and its render pass for
// vkCmdBeginRenderPass.
func (fb *Framebuffer) Handles() (vk.Framebuffer, vk.RenderPass) {
	return fb.framebuffer, fb.renderPass
}

// Extent returns the render area.
func (fb *Framebuffer) Extent() vk.Extent2D { return fb.extent }

// Binds returns how often the framebuffer was bound.
func (fb *Framebuffer) Binds() int { return fb.binds }

// Destroy destroys the framebuffer, its render pass and its attachment
// views. The attached textures are not destroyed.
func (fb *Framebuffer) Destroy() {
	dev := fb.dev.device
	if fb.framebuffer != nil {
		vk.DestroyFramebuffer(dev, fb.framebuffer, nil)
		fb.framebuffer = nil
	}
	if fb.renderPass != nil {
		vk.DestroyRenderPass(dev, fb.renderPass, nil)
		fb.renderPass = nil
	}
	for _, v := range fb.views {
		vk.DestroyImageView(dev, v, nil)
	}
	fb.views = nil
	if fb.dev.bound == fb {
		fb.dev.bound = nil
	}
}

// Sync is a VkFence signalled by an empty queue submission.
type Sync struct {
	device vk.Device
	fence  vk.Fence
}

// ClientWait returns immediately if the fence is already signalled and
// otherwise waits for it.
func (s *Sync) ClientWait(timeout time.Duration) gpucore.WaitResult {
	if s.fence == nil {
		return gpucore.WaitFailed
	}
	status := vk.GetFenceStatus(s.device, s.fence)
	var wait vk.Result
	if status == vk.NotReady {
		wait = vk.WaitForFences(s.device, 1, []vk.Fence{s.fence}, vk.True, uint64(max(timeout, 0).Nanoseconds()))
	}
	return waitResult(status, wait)
}

// Delete destroys the fence.
func (s *Sync) Delete() {
	if s.fence == nil {
		return
	}
	vk.DestroyFence(s.device, s.fence, nil)
	s.fence = nil
}
