package stats

// 32-bit Mersenne Twister (Matsumoto & Nishimura, mt19937ar) with the
// init_by_array seeding routine. Outputs must match the reference mt19937ar
// bit for bit; stored leaderboards depend on it.

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
	mtArraySeed = 19650218
)

type mt19937 struct {
	state [mtN]uint32
	index int
}

func (m *mt19937) seed(s uint32) {
	m.state[0] = s
	for i := 1; i < mtN; i++ {
		prev := m.state[i-1]
		m.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	m.index = mtN
}

// seedArray seeds the generator from key. An empty key is treated as {0}.
func (m *mt19937) seedArray(key []uint32) {
	if len(key) == 0 {
		key = []uint32{0}
	}
	m.seed(mtArraySeed)

	i, j := 1, 0
	k := max(mtN, len(key))
	for ; k > 0; k-- {
		prev := m.state[i-1]
		m.state[i] = (m.state[i] ^ ((prev ^ (prev >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			m.state[0] = m.state[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k = mtN - 1; k > 0; k-- {
		prev := m.state[i-1]
		m.state[i] = (m.state[i] ^ ((prev ^ (prev >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= mtN {
			m.state[0] = m.state[mtN-1]
			i = 1
		}
	}
	m.state[0] = mtUpperMask
}

func (m *mt19937) twist() {
	for k := 0; k < mtN; k++ {
		y := (m.state[k] & mtUpperMask) | (m.state[(k+1)%mtN] & mtLowerMask)
		v := m.state[(k+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			v ^= mtMatrixA
		}
		m.state[k] = v
	}
	m.index = 0
}

// next returns the next tempered output.
func (m *mt19937) next() uint32 {
	if m.index >= mtN {
		m.twist()
	}
	y := m.state[m.index]
	m.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// bits returns the top k bits of the next output, 1 <= k <= 32.
func (m *mt19937) bits(k uint) uint32 {
	return m.next() >> (32 - k)
}

// below returns a uniform value in [0, n) by rejection sampling on the
// smallest bit width that covers n. n must be positive and fit in 32 bits.
func (m *mt19937) below(n uint32) uint32 {
	k := uint(bitLen(n))
	r := m.bits(k)
	for r >= n {
		r = m.bits(k)
	}
	return r
}

func bitLen(n uint32) int {
	l := 0
	for n != 0 {
		l++
		n >>= 1
	}
	return l
}
