package java

// Support classes shared by every generated Java package. Each template
// takes the Java package name as its only argument.

const writerTemplate = `// Code generated by bytebridge. DO NOT EDIT.

package %s;

import java.nio.ByteBuffer;
import java.nio.ByteOrder;
import java.nio.charset.StandardCharsets;
import java.time.Duration;
import java.util.ArrayList;
import java.util.Comparator;
import java.util.List;
import java.util.Map;

/**
 * Writes the ByteBridge flat framing: little-endian scalars, u64 lengths,
 * one-byte union discriminants and option tags.
 */
public final class ByteBridgeWriter {
    /** Orders strings by their UTF-8 bytes, the order map keys are written in. */
    public static final Comparator<String> UTF8_ORDER = (a, b) -> {
        byte[] x = a.getBytes(StandardCharsets.UTF_8);
        byte[] y = b.getBytes(StandardCharsets.UTF_8);
        int n = Math.min(x.length, y.length);
        for (int i = 0; i < n; i++) {
            int c = Integer.compare(x[i] & 0xFF, y[i] & 0xFF);
            if (c != 0) {
                return c;
            }
        }
        return Integer.compare(x.length, y.length);
    };

    private ByteBuffer buf;

    public ByteBridgeWriter() {
        this(64);
    }

    public ByteBridgeWriter(int capacity) {
        buf = ByteBuffer.allocate(Math.max(capacity, 16)).order(ByteOrder.LITTLE_ENDIAN);
    }

    private void ensure(int n) {
        if (buf.remaining() >= n) {
            return;
        }
        int need = buf.position() + n;
        ByteBuffer grown = ByteBuffer.allocate(Math.max(buf.capacity() * 2, need)).order(ByteOrder.LITTLE_ENDIAN);
        buf.flip();
        grown.put(buf);
        buf = grown;
    }

    public void writeBool(boolean v) {
        ensure(1);
        buf.put((byte) (v ? 1 : 0));
    }

    public void writeU8(short v) {
        ensure(1);
        buf.put((byte) v);
    }

    public void writeU16(int v) {
        ensure(2);
        buf.putShort((short) v);
    }

    public void writeU32(long v) {
        ensure(4);
        buf.putInt((int) v);
    }

    /** Writes the 64 bits of v; values above Long.MAX_VALUE are negative longs. */
    public void writeU64(long v) {
        ensure(8);
        buf.putLong(v);
    }

    public void writeI8(byte v) {
        ensure(1);
        buf.put(v);
    }

    public void writeI16(short v) {
        ensure(2);
        buf.putShort(v);
    }

    public void writeI32(int v) {
        ensure(4);
        buf.putInt(v);
    }

    public void writeI64(long v) {
        ensure(8);
        buf.putLong(v);
    }

    public void writeF32(float v) {
        ensure(4);
        buf.putFloat(v);
    }

    public void writeF64(double v) {
        ensure(8);
        buf.putDouble(v);
    }

    public void writeString(String v) {
        byte[] b = v.getBytes(StandardCharsets.UTF_8);
        writeLen(b.length);
        ensure(b.length);
        buf.put(b);
    }

    /** Writes whole seconds. Negative durations are written as zero. */
    public void writeDuration(Duration d) {
        writeU64(d.isNegative() ? 0 : d.getSeconds());
    }

    public void writeLen(int n) {
        writeU64(n);
    }

    public void writeMapLen(int n) {
        writeU64(n);
    }

    public void writeVariant(int index) {
        writeU8((short) index);
    }

    public void writeOptionTag(boolean present) {
        writeBool(present);
    }

    /** Writes the length prefix of a fixed array after checking its arity. */
    public void writeArrayLen(int n, int arity) {
        if (n != arity) {
            throw ByteBridgeException.arityMismatch(arity, n);
        }
        writeLen(n);
    }

    public void writeByteArray(byte[] v, int arity) {
        if (arity >= 0) {
            writeArrayLen(v.length, arity);
        } else {
            writeLen(v.length);
        }
        ensure(v.length);
        buf.put(v);
    }

    public void writeShortArray(short[] v, int arity) {
        if (arity >= 0) {
            writeArrayLen(v.length, arity);
        } else {
            writeLen(v.length);
        }
        for (short e : v) {
            writeI16(e);
        }
    }

    public void writeIntArray(int[] v, int arity) {
        if (arity >= 0) {
            writeArrayLen(v.length, arity);
        } else {
            writeLen(v.length);
        }
        for (int e : v) {
            writeI32(e);
        }
    }

    public void writeLongArray(long[] v, int arity) {
        if (arity >= 0) {
            writeArrayLen(v.length, arity);
        } else {
            writeLen(v.length);
        }
        for (long e : v) {
            writeI64(e);
        }
    }

    /** Returns the keys of m in wire order. */
    public static <K> List<K> sortedKeys(Map<K, ?> m, Comparator<? super K> order) {
        List<K> keys = new ArrayList<>(m.keySet());
        keys.sort(order);
        return keys;
    }

    public int size() {
        return buf.position();
    }

    public byte[] toByteArray() {
        byte[] out = new byte[buf.position()];
        ByteBuffer view = buf.duplicate();
        view.flip();
        view.get(out);
        return out;
    }
}
`

const readerTemplate = `// Code generated by bytebridge. DO NOT EDIT.

package %s;

import java.nio.ByteBuffer;
import java.nio.ByteOrder;
import java.nio.charset.CharacterCodingException;
import java.nio.charset.CodingErrorAction;
import java.nio.charset.StandardCharsets;
import java.time.Duration;

/**
 * Reads the ByteBridge flat framing. Every read checks the remaining input
 * before touching it. After an exception the reader must be discarded.
 */
public final class ByteBridgeReader {
    public static final int DEFAULT_MAX_STRING_BYTES = 1 << 30;
    public static final int DEFAULT_MAX_SEQUENCE_LENGTH = 1 << 27;

    private static final long MAX_DURATION_SECONDS = Long.MAX_VALUE / 1_000_000_000L;

    private final ByteBuffer buf;
    private final int maxStringBytes;
    private final int maxSequenceLength;

    public ByteBridgeReader(byte[] data) {
        this(ByteBuffer.wrap(data), DEFAULT_MAX_STRING_BYTES, DEFAULT_MAX_SEQUENCE_LENGTH);
    }

    public ByteBridgeReader(ByteBuffer data, int maxStringBytes, int maxSequenceLength) {
        this.buf = data.slice().order(ByteOrder.LITTLE_ENDIAN);
        this.maxStringBytes = maxStringBytes;
        this.maxSequenceLength = maxSequenceLength;
    }

    private void require(long n) {
        if (n > buf.remaining()) {
            throw ByteBridgeException.insufficientData(n, buf.remaining());
        }
    }

    public int remaining() {
        return buf.remaining();
    }

    /** Rejects unread input after a top-level value. */
    public void finish() {
        if (buf.hasRemaining()) {
            throw ByteBridgeException.trailingData(buf.remaining());
        }
    }

    public boolean readBool() {
        require(1);
        byte b = buf.get();
        if (b == 0) {
            return false;
        }
        if (b == 1) {
            return true;
        }
        throw ByteBridgeException.invalidBool(b);
    }

    public short readU8() {
        require(1);
        return (short) (buf.get() & 0xFF);
    }

    public int readU16() {
        require(2);
        return buf.getShort() & 0xFFFF;
    }

    public long readU32() {
        require(4);
        return buf.getInt() & 0xFFFFFFFFL;
    }

    /** Returns the 64 bits as a long; compare with Long.compareUnsigned. */
    public long readU64() {
        require(8);
        return buf.getLong();
    }

    public byte readI8() {
        require(1);
        return buf.get();
    }

    public short readI16() {
        require(2);
        return buf.getShort();
    }

    public int readI32() {
        require(4);
        return buf.getInt();
    }

    public long readI64() {
        require(8);
        return buf.getLong();
    }

    public float readF32() {
        require(4);
        return buf.getFloat();
    }

    public double readF64() {
        require(8);
        return buf.getDouble();
    }

    public short readNonZeroU8() {
        short v = readU8();
        checkNonZero(v);
        return v;
    }

    public int readNonZeroU16() {
        int v = readU16();
        checkNonZero(v);
        return v;
    }

    public long readNonZeroU32() {
        long v = readU32();
        checkNonZero(v);
        return v;
    }

    public long readNonZeroU64() {
        long v = readU64();
        checkNonZero(v);
        return v;
    }

    public String readString() {
        long n = readU64();
        if (n < 0 || n > maxStringBytes) {
            throw ByteBridgeException.limitExceeded(n, maxStringBytes);
        }
        require(n);
        ByteBuffer slice = buf.slice();
        slice.limit((int) n);
        buf.position(buf.position() + (int) n);
        try {
            return StandardCharsets.UTF_8.newDecoder()
                    .onMalformedInput(CodingErrorAction.REPORT)
                    .onUnmappableCharacter(CodingErrorAction.REPORT)
                    .decode(slice)
                    .toString();
        } catch (CharacterCodingException e) {
            throw ByteBridgeException.invalidUtf8(e);
        }
    }

    public Duration readDuration() {
        long s = readU64();
        if (s < 0 || s > MAX_DURATION_SECONDS) {
            throw ByteBridgeException.numericOverflow(Long.toUnsignedString(s), "duration");
        }
        return Duration.ofSeconds(s);
    }

    public int readLen() {
        long n = readU64();
        if (n < 0 || n > Integer.MAX_VALUE) {
            throw ByteBridgeException.numericOverflow(Long.toUnsignedString(n), "length");
        }
        return (int) n;
    }

    public int readMapLen() {
        return readLen();
    }

    public int readVariant() {
        return readU8();
    }

    public boolean readOptionTag() {
        require(1);
        byte b = buf.get();
        if (b == 0) {
            return false;
        }
        if (b == 1) {
            return true;
        }
        throw ByteBridgeException.invalidOptionTag(b);
    }

    public void readArrayLen(int arity) {
        int n = readLen();
        if (n != arity) {
            throw ByteBridgeException.arityMismatch(arity, n);
        }
    }

    /**
     * Bounds a declared element count for preallocation by what the
     * remaining input could hold. Elements that occupy no bytes are bounded
     * by the sequence length limit instead.
     */
    public int capHint(int n, int minWidth) {
        if (minWidth <= 0) {
            if (n > maxSequenceLength) {
                throw ByteBridgeException.limitExceeded(n, maxSequenceLength);
            }
            return n;
        }
        return Math.min(n, buf.remaining() / minWidth);
    }

    private int arrayLen(int arity, int width) {
        int n = readLen();
        if (arity >= 0 && n != arity) {
            throw ByteBridgeException.arityMismatch(arity, n);
        }
        require((long) n * width);
        return n;
    }

    public byte[] readByteArray(int arity) {
        byte[] out = new byte[arrayLen(arity, 1)];
        buf.get(out);
        return out;
    }

    public short[] readShortArray(int arity) {
        short[] out = new short[arrayLen(arity, 2)];
        for (int i = 0; i < out.length; i++) {
            out[i] = buf.getShort();
        }
        return out;
    }

    public int[] readIntArray(int arity) {
        int[] out = new int[arrayLen(arity, 4)];
        for (int i = 0; i < out.length; i++) {
            out[i] = buf.getInt();
        }
        return out;
    }

    public long[] readLongArray(int arity) {
        long[] out = new long[arrayLen(arity, 8)];
        for (int i = 0; i < out.length; i++) {
            out[i] = buf.getLong();
        }
        return out;
    }

    public static void checkNonZero(long v) {
        if (v == 0) {
            throw ByteBridgeException.constraintViolation(v, "nonzero");
        }
    }

    public static void checkNatural(double v) {
        if (v < 0) {
            throw ByteBridgeException.constraintViolation(v, "natural");
        }
    }

    public static void checkRange(long v, long lo, long hi) {
        if (v < lo || v > hi) {
            throw ByteBridgeException.constraintViolation(v, "range " + lo + ".." + hi);
        }
    }

    public static void checkRange(double v, double lo, double hi) {
        if (!(v >= lo && v <= hi)) {
            throw ByteBridgeException.constraintViolation(v, "range " + lo + ".." + hi);
        }
    }

    public static void checkRangeUnsigned(long v, long lo, long hi) {
        if (Long.compareUnsigned(v, lo) < 0 || Long.compareUnsigned(v, hi) > 0) {
            throw ByteBridgeException.constraintViolation(Long.toUnsignedString(v),
                    "range " + Long.toUnsignedString(lo) + ".." + Long.toUnsignedString(hi));
        }
    }
}
`

const exceptionTemplate = `// Code generated by bytebridge. DO NOT EDIT.

package %s;

import java.util.ArrayList;
import java.util.Collections;
import java.util.List;

/**
 * Reports malformed input or a violated constraint. kind() carries the same
 * identifiers the Go errors package uses, such as "insufficient_data".
 */
public class ByteBridgeException extends RuntimeException {
    private static final long serialVersionUID = 1L;

    private final String kind;
    private final String detail;
    private final List<String> path;

    public ByteBridgeException(String kind, String detail) {
        this(kind, detail, Collections.emptyList(), null);
    }

    private ByteBridgeException(String kind, String detail, List<String> path, Throwable cause) {
        super(message(kind, detail, path), cause);
        this.kind = kind;
        this.detail = detail;
        this.path = Collections.unmodifiableList(path);
    }

    private static String message(String kind, String detail, List<String> path) {
        StringBuilder b = new StringBuilder(kind);
        if (!path.isEmpty()) {
            b.append(" at ").append(String.join(".", path));
        }
        if (detail != null && !detail.isEmpty()) {
            b.append(": ").append(detail);
        }
        return b.toString();
    }

    public String kind() {
        return kind;
    }

    public List<String> path() {
        return path;
    }

    /** Returns a copy of this exception with segments prepended to its path. */
    public ByteBridgeException prefix(String... segments) {
        List<String> p = new ArrayList<>(segments.length + path.size());
        Collections.addAll(p, segments);
        p.addAll(path);
        return new ByteBridgeException(kind, detail, p, getCause());
    }

    static ByteBridgeException insufficientData(long need, int have) {
        return new ByteBridgeException("insufficient_data", "need " + need + " bytes, have " + have);
    }

    static ByteBridgeException trailingData(int n) {
        return new ByteBridgeException("trailing_data", n + " unread bytes");
    }

    static ByteBridgeException invalidBool(byte b) {
        return new ByteBridgeException("invalid_bool", "byte " + (b & 0xFF) + " is not 0 or 1");
    }

    static ByteBridgeException invalidOptionTag(byte b) {
        return new ByteBridgeException("invalid_option_tag", "byte " + (b & 0xFF) + " is not 0 or 1");
    }

    static ByteBridgeException invalidUtf8(Throwable cause) {
        return new ByteBridgeException("invalid_utf8", "string is not valid UTF-8", Collections.emptyList(), cause);
    }

    static ByteBridgeException numericOverflow(String value, String target) {
        return new ByteBridgeException("numeric_overflow", value + " does not fit " + target);
    }

    static ByteBridgeException limitExceeded(long n, int limit) {
        return new ByteBridgeException("limit_exceeded", "declared length " + n + " exceeds limit " + limit);
    }

    static ByteBridgeException arityMismatch(int want, long got) {
        return new ByteBridgeException("arity_mismatch", "want " + want + " elements, got " + got);
    }

    public static ByteBridgeException unknownVariant(String union, int disc, int count) {
        return new ByteBridgeException("unknown_variant",
                union + " has " + count + " variants, got discriminant " + disc);
    }

    static ByteBridgeException constraintViolation(Object value, String constraint) {
        return new ByteBridgeException("constraint_violation", value + " violates " + constraint);
    }
}
`

const fingerprintTemplate = `// Code generated by bytebridge. DO NOT EDIT.

package %s;

/** Identifies the schema these classes were generated from. */
public final class SchemaFingerprint {
    public static final String VALUE = "%s";

    private SchemaFingerprint() {
    }
}
`
