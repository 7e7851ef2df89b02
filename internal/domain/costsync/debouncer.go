package costsync

import (
	"sync"
	"time"
)

// Debouncer agrupa escrituras por clave: solo la última llamada dentro de la ventana se ejecuta.
// Cada clave tiene su propio temporizador; claves distintas no se bloquean entre sí.
type Debouncer[K comparable] struct {
	wait    time.Duration
	mu      sync.Mutex
	pending map[K]*pendingCall
}

type pendingCall struct {
	timer *time.Timer
	gen   uint64
	fn    func()
}

// NewDebouncer crea un debouncer con la ventana de silencio wait.
func NewDebouncer[K comparable](wait time.Duration) *Debouncer[K] {
	return &Debouncer[K]{wait: wait, pending: make(map[K]*pendingCall)}
}

// Schedule programa fn para key, reemplazando la llamada pendiente de esa clave.
func (d *Debouncer[K]) Schedule(key K, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[key]
	if !ok {
		p = &pendingCall{}
		d.pending[key] = p
	} else if p.timer != nil {
		p.timer.Stop()
	}
	p.gen++
	p.fn = fn
	gen := p.gen
	p.timer = time.AfterFunc(d.wait, func() { d.fire(key, gen) })
}

func (d *Debouncer[K]) fire(key K, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok || p.gen != gen {
		// reemplazada por una llamada posterior
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	fn := p.fn
	d.mu.Unlock()
	fn()
}

// Cancel descarta la llamada pendiente de key. Devuelve true si había una.
func (d *Debouncer[K]) Cancel(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pending[key]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(d.pending, key)
	return true
}

// Flush ejecuta de inmediato todas las llamadas pendientes (por ejemplo al apagar el servidor).
func (d *Debouncer[K]) Flush() {
	d.mu.Lock()
	fns := make([]func(), 0, len(d.pending))
	for k, p := range d.pending {
		p.timer.Stop()
		fns = append(fns, p.fn)
		delete(d.pending, k)
	}
	d.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Pending cantidad de claves con escritura pendiente.
func (d *Debouncer[K]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
