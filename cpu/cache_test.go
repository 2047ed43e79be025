package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sim16/cpu"
)

var _ = Describe("Cache", func() {
	var (
		mem *cpu.Memory
		c   *cpu.Cache
	)

	BeforeEach(func() {
		// Four backing blocks of eight words, two cache slots.
		mem = cpu.NewMemory(4, 8)
		c = cpu.NewCache(2, 8, mem)
	})

	Describe("address validation", func() {
		It("rejects reads at and past the capacity", func() {
			_, err := c.Read(32)
			Expect(err).To(MatchError(cpu.ErrIllegalAddress))

			_, err = c.Read(0xFFFF)
			Expect(err).To(MatchError(cpu.ErrIllegalAddress))
		})

		It("rejects writes past the capacity", func() {
			Expect(c.Write(32, 1)).To(MatchError(cpu.ErrIllegalAddress))
		})

		It("does not count a rejected access", func() {
			_, _ = c.Read(32)
			Expect(c.Accesses()).To(Equal(uint64(0)))
			Expect(c.Hits()).To(Equal(uint64(0)))
		})

		It("accepts the last word of the last block", func() {
			_, err := c.Read(31)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("read path", func() {
		It("misses on a cold cache and serves the backing value", func() {
			mem.SetWord(3, 0xBEEF)

			v, err := c.Read(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint16(0xBEEF)))
			Expect(c.Hits()).To(Equal(uint64(0)))
			Expect(c.Misses()).To(Equal(uint64(1)))
		})

		It("hits on the second access to the same block", func() {
			mem.SetWord(4, 0x1234)

			_, err := c.Read(3) // same block, different offset
			Expect(err).NotTo(HaveOccurred())
			v, err := c.Read(4)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint16(0x1234)))
			Expect(c.Hits()).To(Equal(uint64(1)))
			Expect(c.Misses()).To(Equal(uint64(1)))
		})

		It("returns the same value on repeated reads without touching memory", func() {
			mem.SetWord(9, 0x5A5A)
			for i := 0; i < 5; i++ {
				v, err := c.Read(9)
				Expect(err).NotTo(HaveOccurred())
				Expect(v).To(Equal(uint16(0x5A5A)))
			}
			Expect(mem.Word(9)).To(Equal(uint16(0x5A5A)))
			Expect(c.Hits()).To(Equal(uint64(4)))
		})
	})

	Describe("accounting", func() {
		It("keeps hits+misses equal to the access total", func() {
			addrs := []uint16{0, 8, 0, 16, 24, 8, 1, 9}
			for _, a := range addrs {
				_, err := c.Read(a)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(c.Accesses()).To(Equal(uint64(len(addrs))))
			Expect(c.Hits() + c.Misses()).To(Equal(c.Accesses()))
		})

		It("reports zero everything for an untouched cache", func() {
			Expect(c.Accesses()).To(Equal(uint64(0)))
			Expect(c.Hits()).To(Equal(uint64(0)))
			Expect(c.Misses()).To(Equal(uint64(0)))
			Expect(c.HitRate()).To(Equal(0.0))
		})
	})

	Describe("write-back", func() {
		It("holds a written word in the slot until eviction", func() {
			Expect(c.Write(0, 0xCAFE)).To(Succeed())

			// Backing store still has the filler word.
			Expect(mem.Word(0)).To(Equal(uint16(0xFFFF)))
			v, err := c.Read(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint16(0xCAFE)))
		})

		It("writes a dirty block back when evicted", func() {
			single := cpu.NewCache(1, 8, mem)

			Expect(single.Write(0, 0x1111)).To(Succeed())  // miss, block 0
			Expect(single.Write(8, 0x2222)).To(Succeed())  // miss, evicts dirty block 0
			Expect(mem.Word(0)).To(Equal(uint16(0x1111)))  // written back
			Expect(mem.Word(8)).To(Equal(uint16(0xFFFF))) // still only in cache
			Expect(single.Hits()).To(Equal(uint64(0)))
			Expect(single.Misses()).To(Equal(uint64(2)))

			single.FlushAll()
			Expect(mem.Word(8)).To(Equal(uint16(0x2222)))
		})

		It("leaves the backing store alone when evicting a clean block", func() {
			single := cpu.NewCache(1, 8, mem)
			mem.SetWord(0, 0xAAAA)

			_, err := single.Read(0)
			Expect(err).NotTo(HaveOccurred())
			_, err = single.Read(8) // evicts clean block 0
			Expect(err).NotTo(HaveOccurred())
			Expect(mem.Word(0)).To(Equal(uint16(0xAAAA)))
		})

		It("keeps a rewritten slot dirty", func() {
			Expect(c.Write(5, 1)).To(Succeed())
			Expect(c.Write(5, 2)).To(Succeed())
			c.FlushAll()
			Expect(mem.Word(5)).To(Equal(uint16(2)))
		})

		It("flushes every dirty slot and empties the cache", func() {
			Expect(c.Write(0, 0xA)).To(Succeed())
			Expect(c.Write(8, 0xB)).To(Succeed())
			c.FlushAll()
			Expect(mem.Word(0)).To(Equal(uint16(0xA)))
			Expect(mem.Word(8)).To(Equal(uint16(0xB)))

			// The next access misses again: the flush invalidated everything.
			misses := c.Misses()
			_, err := c.Read(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Misses()).To(Equal(misses + 1))
		})
	})

	Describe("LRU replacement", func() {
		It("evicts the slot with the oldest access, not the oldest fill", func() {
			_, err := c.Read(0) // fill block 0
			Expect(err).NotTo(HaveOccurred())
			_, err = c.Read(8) // fill block 1
			Expect(err).NotTo(HaveOccurred())
			_, err = c.Read(0) // touch block 0; block 1 is now LRU
			Expect(err).NotTo(HaveOccurred())
			_, err = c.Read(16) // must evict block 1
			Expect(err).NotTo(HaveOccurred())

			hits := c.Hits()
			_, err = c.Read(0) // still resident
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Hits()).To(Equal(hits + 1))

			misses := c.Misses()
			_, err = c.Read(8) // was evicted
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Misses()).To(Equal(misses + 1))
		})

		It("prefers an invalid slot over evicting", func() {
			Expect(c.Write(0, 0xD00D)).To(Succeed())
			_, err := c.Read(8) // second slot is free, no eviction
			Expect(err).NotTo(HaveOccurred())
			Expect(mem.Word(0)).To(Equal(uint16(0xFFFF)))
		})

		It("counts a write miss like a read miss", func() {
			single := cpu.NewCache(1, 8, mem)
			Expect(single.Write(0, 1)).To(Succeed())
			Expect(single.Write(1, 2)).To(Succeed()) // same block: hit
			Expect(single.Hits()).To(Equal(uint64(1)))
			Expect(single.Misses()).To(Equal(uint64(1)))
		})
	})
})
